package core

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production platform origin.
const DefaultBaseURL = "https://api.cadencehq.io"

// Client is the main entry point for the Cadence API.
// Client is safe for concurrent use.
type Client struct {
	transport *Transport
	responses *ResponsesService
}

// Option configures a Client.
type Option func(*Config)

// New creates a Client authenticated with the given API key.
func New(apiKey string, opts ...Option) *Client {
	cfg := Config{
		BaseURL: DefaultBaseURL,
		APIKey:  NewSecret(apiKey),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	t := NewTransport(cfg)
	return &Client{
		transport: t,
		responses: NewResponses(t),
	}
}

// WithBaseURL sets the platform origin.
func WithBaseURL(u string) Option {
	return func(c *Config) { c.BaseURL = u }
}

// WithAPIPrefix sets the API path prefix.
func WithAPIPrefix(p string) Option {
	return func(c *Config) { c.APIPrefix = p }
}

// WithTimeout sets the per-attempt request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithMaxRetries sets the retry count for idempotent-safe requests.
func WithMaxRetries(n int) Option {
	return func(c *Config) { c.MaxRetries = n }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Config) { c.HTTPClient = hc }
}

// WithHeader adds a default header attached to every request.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(map[string]string)
		}
		c.DefaultHeaders[key] = value
	}
}

// WithLogger sets the logger for retry and tenant-scope advisories.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) { c.Logger = &l }
}

// Transport returns the underlying transport, for building resource
// services on top of the same configuration.
func (c *Client) Transport() *Transport {
	return c.transport
}

// Responses returns the responses service.
func (c *Client) Responses() *ResponsesService {
	return c.responses
}
