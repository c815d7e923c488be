package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// DefaultAPIPrefix is prepended to every request path.
	DefaultAPIPrefix = "/api/v1"
	// DefaultTimeout bounds each individual request attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries is the number of retries after the initial attempt
	// for idempotent-safe requests.
	DefaultMaxRetries = 2

	headerIdempotencyKey = "Idempotency-Key"
	headerRequestID      = "x-request-id"
	headerAPIKey         = "X-API-Key"

	backoffBase = time.Second
	backoffCap  = 10 * time.Second
	jitterMax   = 500 * time.Millisecond
)

// Config holds transport configuration. It is read-only after construction;
// a Transport built from it is safe to share across concurrent calls.
type Config struct {
	// BaseURL is the platform origin. A trailing slash is stripped.
	BaseURL string

	// APIKey is attached to every request as the X-API-Key header.
	APIKey Secret

	// APIPrefix defaults to DefaultAPIPrefix.
	APIPrefix string

	// DefaultHeaders are merged into every request after content-type and
	// before per-request overrides.
	DefaultHeaders map[string]string

	// Timeout bounds each attempt. Defaults to DefaultTimeout.
	Timeout time.Duration

	// MaxRetries is the retry count for idempotent-safe requests.
	// Zero means DefaultMaxRetries; negative disables retries.
	MaxRetries int

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client

	// Logger receives retry and tenant-scope advisories. Nil means no logging.
	Logger *zerolog.Logger
}

// RequestOptions carries the per-call parts of a request descriptor.
type RequestOptions struct {
	// Body is JSON-serialized with snake_case keys.
	Body any

	// Params become query parameters. Nil values (including typed nil
	// pointers) are dropped; everything else is stringified.
	Params map[string]any

	// IdempotencyKey overrides the generated key for mutating requests.
	IdempotencyKey string

	// Headers override configured defaults for this request only.
	Headers map[string]string
}

// Transport issues HTTP requests against the platform API: it builds
// paths and queries, applies idempotency keys, retries with backoff and
// jitter, and maps failures to typed errors. All resource services and the
// response orchestrator go through it.
type Transport struct {
	baseURL    string
	prefix     string
	headers    map[string]string
	timeout    time.Duration
	maxRetries int
	client     *http.Client
	log        zerolog.Logger

	// overridable in tests to keep backoff sleeps short
	backoffBase time.Duration
	backoffCap  time.Duration
	jitterMax   time.Duration
}

// NewTransport builds a Transport from cfg, applying defaults.
func NewTransport(cfg Config) *Transport {
	prefix := cfg.APIPrefix
	if prefix == "" {
		prefix = DefaultAPIPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	} else if maxRetries < 0 {
		maxRetries = 0
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	headers := make(map[string]string, len(cfg.DefaultHeaders)+1)
	if !cfg.APIKey.IsEmpty() {
		headers[headerAPIKey] = cfg.APIKey.Expose()
	}
	for k, v := range cfg.DefaultHeaders {
		headers[k] = v
	}

	return &Transport{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		prefix:      strings.TrimRight(prefix, "/"),
		headers:     headers,
		timeout:     timeout,
		maxRetries:  maxRetries,
		client:      client,
		log:         logger,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
		jitterMax:   jitterMax,
	}
}

// Get issues a GET request.
func (t *Transport) Get(ctx context.Context, path string, params map[string]any) (any, error) {
	return t.Request(ctx, http.MethodGet, path, &RequestOptions{Params: params})
}

// Post issues a POST request with a JSON body.
func (t *Transport) Post(ctx context.Context, path string, body any) (any, error) {
	return t.Request(ctx, http.MethodPost, path, &RequestOptions{Body: body})
}

// Put issues a PUT request with a JSON body.
func (t *Transport) Put(ctx context.Context, path string, body any) (any, error) {
	return t.Request(ctx, http.MethodPut, path, &RequestOptions{Body: body})
}

// Patch issues a PATCH request with a JSON body.
func (t *Transport) Patch(ctx context.Context, path string, body any) (any, error) {
	return t.Request(ctx, http.MethodPatch, path, &RequestOptions{Body: body})
}

// Delete issues a DELETE request.
func (t *Transport) Delete(ctx context.Context, path string, params map[string]any) (any, error) {
	return t.Request(ctx, http.MethodDelete, path, &RequestOptions{Params: params})
}

// Request executes one API call and returns the decoded body: nil for empty
// responses, a camel-keyed value for JSON, or the raw text otherwise.
//
// Requests are retried only when they are idempotent-safe: GET, DELETE, or
// any request carrying an idempotency key (caller-supplied or generated).
// Everything else gets exactly one attempt, so an ambiguous failure can
// never double-send.
func (t *Transport) Request(ctx context.Context, method, path string, opts *RequestOptions) (any, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}

	reqURL, err := t.buildURL(path, opts.Params)
	if err != nil {
		return nil, &Error{Kind: KindValidation, Message: err.Error(), Code: "INVALID_REQUEST"}
	}

	key := opts.IdempotencyKey
	if key == "" && method != http.MethodGet {
		key = uuid.NewString()
	}

	var body []byte
	if opts.Body != nil {
		body, err = encodeBody(opts.Body)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Message: err.Error(), Code: "INVALID_REQUEST"}
		}
	}

	headers := t.mergeHeaders(opts.Headers, key)

	attempts := 1
	if method == http.MethodGet || method == http.MethodDelete || key != "" {
		attempts = t.maxRetries + 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		result, err := t.doAttempt(ctx, method, reqURL, headers, body)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, err
		}

		var apiErr *Error
		if errors.As(err, &apiErr) {
			if apiErr.Kind == KindRateLimit {
				// 429 stays retryable despite being a 4xx.
				if attempt+1 >= attempts {
					break
				}
				delay := t.retryDelay(attempt, apiErr)
				t.logRetry(method, path, attempt, delay, apiErr)
				if err := sleepContext(ctx, delay); err != nil {
					return nil, err
				}
				continue
			}
			if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
				// Permanent client error.
				return nil, err
			}
		}

		if attempt+1 >= attempts {
			break
		}
		delay := t.retryDelay(attempt, nil)
		t.logRetry(method, path, attempt, delay, err)
		if err := sleepContext(ctx, delay); err != nil {
			return nil, err
		}
	}

	if lastErr == nil {
		lastErr = &Error{Kind: KindServer, Message: "request failed after all retries", Code: DefaultErrorCode}
	}
	return nil, lastErr
}

// WarnTenantScope logs a caution before a tenant-scoped operation. It is
// advisory only; it carries no retry or error semantics.
func (t *Transport) WarnTenantScope(operation string) {
	t.log.Warn().
		Str("operation", operation).
		Msg("tenant-scoped operation: this affects every member of the workspace")
}

func (t *Transport) buildURL(path string, params map[string]any) (string, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := url.Parse(t.baseURL + t.prefix + path)
	if err != nil {
		return "", err
	}
	if len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			s, ok := paramString(v)
			if !ok {
				continue
			}
			q.Set(k, s)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// paramString stringifies a query value, reporting false for nil values
// (including typed nil pointers) so they are dropped.
func paramString(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	return fmt.Sprint(rv.Interface()), true
}

func (t *Transport) mergeHeaders(overrides map[string]string, idempotencyKey string) map[string]string {
	merged := map[string]string{"Content-Type": "application/json"}
	for k, v := range t.headers {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	if idempotencyKey != "" {
		merged[headerIdempotencyKey] = idempotencyKey
	}
	return merged
}

func (t *Transport) doAttempt(ctx context.Context, method, reqURL string, headers map[string]string, body []byte) (any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, reqURL, reader)
	if err != nil {
		return nil, networkError(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	return t.handleResponse(resp)
}

func (t *Transport) handleResponse(resp *http.Response) (any, error) {
	requestID := resp.Header.Get(headerRequestID)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if resp.StatusCode == http.StatusNoContent {
			return nil, nil
		}
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, networkError(err)
		}
		if len(raw) == 0 {
			return nil, nil
		}
		if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
			if decoded, err := decodeBody(raw); err == nil {
				return decoded, nil
			}
		}
		return string(raw), nil
	}

	raw, _ := io.ReadAll(resp.Body)
	return nil, errorFromResponse(resp.StatusCode, raw, requestID, resp.Header.Get("Retry-After"))
}

// retryDelay computes the sleep before the next attempt: the Retry-After
// hint when a rate-limit error carries one, otherwise exponential backoff
// capped at backoffCap, plus jitter either way.
func (t *Transport) retryDelay(attempt int, rateLimit *Error) time.Duration {
	delay := t.backoffBase << attempt
	if delay > t.backoffCap || delay <= 0 {
		delay = t.backoffCap
	}
	if rateLimit != nil {
		if d, ok := rateLimit.RetryAfterDelay(time.Now()); ok {
			delay = d
		}
	}
	if t.jitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(t.jitterMax)))
	}
	return delay
}

func (t *Transport) logRetry(method, path string, attempt int, delay time.Duration, err error) {
	t.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("attempt", attempt+1).
		Dur("backoff", delay).
		Err(err).
		Msg("retrying request")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
