// Package config loads client configuration from a YAML file with
// environment variable overrides.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cadencehq/cadence-go/core"
)

// Environment variables that override file values.
const (
	EnvAPIKey  = "CADENCE_API_KEY"
	EnvBaseURL = "CADENCE_BASE_URL"
)

// File is the on-disk configuration shape.
type File struct {
	BaseURL        string            `yaml:"base_url,omitempty"`
	APIKey         string            `yaml:"api_key,omitempty"`
	APIPrefix      string            `yaml:"api_prefix,omitempty"`
	TimeoutSeconds int               `yaml:"timeout_seconds,omitempty"`
	MaxRetries     int               `yaml:"max_retries,omitempty"`
	Headers        map[string]string `yaml:"headers,omitempty"`
}

// DefaultPath returns the default configuration file path for the current
// platform:
//   - macOS/Linux: ~/.cadence/config.yaml
//   - Windows: %USERPROFILE%\.cadence\config.yaml
func DefaultPath() string {
	var homeDir string
	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}
	if homeDir == "" {
		return "config.yaml"
	}
	return filepath.Join(homeDir, ".cadence", "config.yaml")
}

// Load reads configuration from path. A missing file is not an error; an
// empty File is returned so env overrides still apply. Returns an error only
// if the file exists but cannot be read or parsed.
func Load(path string) (*File, error) {
	f := &File{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ClientConfig converts the file into a core.Config, applying environment
// overrides: CADENCE_API_KEY and CADENCE_BASE_URL win over file values.
func (f *File) ClientConfig() core.Config {
	baseURL := f.BaseURL
	if v := os.Getenv(EnvBaseURL); v != "" {
		baseURL = v
	}
	if baseURL == "" {
		baseURL = core.DefaultBaseURL
	}

	apiKey := f.APIKey
	if v := os.Getenv(EnvAPIKey); v != "" {
		apiKey = v
	}

	return core.Config{
		BaseURL:        baseURL,
		APIKey:         core.NewSecret(apiKey),
		APIPrefix:      f.APIPrefix,
		DefaultHeaders: f.Headers,
		Timeout:        time.Duration(f.TimeoutSeconds) * time.Second,
		MaxRetries:     f.MaxRetries,
	}
}
