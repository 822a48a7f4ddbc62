// Package config persists the analyzer's settings: the OAuth token, the app
// registration in use, request tuning, and report defaults. Settings live in
// a JSON file under the user config directory; a local .env file and
// SPANALYZER_* environment variables can override individual fields.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"github.com/spanalyzer/spanalyzer/pkg/graph"
)

const (
	appDirName = "spanalyzer"
	configFile = "config.json"

	// DefaultClientID is the Microsoft Graph PowerShell first-party app,
	// usable for delegated Sites.Read.All without a custom registration.
	DefaultClientID = "04b07795-8ddb-461a-bbee-02f9e1bf7b46"

	DefaultTenantID = "common"
	DefaultOutput   = "sharepoint_analysis_report.html"
	DefaultFormat   = "html"
)

// Configuration holds all persisted settings.
type Configuration struct {
	Token    graph.Token `json:"token"`
	ClientID string      `json:"client_id,omitempty"`
	TenantID string      `json:"tenant_id,omitempty"`
	Debug    bool        `json:"debug"`

	BaseURL               string `json:"base_url,omitempty"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds,omitempty"`
	MaxAttempts           int    `json:"max_attempts,omitempty"`
	RetryAfterSeconds     int    `json:"retry_after_seconds,omitempty"`

	Output string `json:"output,omitempty"`
	Format string `json:"format,omitempty"`

	mu  sync.Mutex
	dir string
}

// Dir returns the directory this configuration persists under.
func (c *Configuration) Dir() string {
	return c.dir
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Configuration) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return graph.DefaultTimeout
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// RetryAfterDefault returns the fallback rate-limit backoff as a duration.
func (c *Configuration) RetryAfterDefault() time.Duration {
	if c.RetryAfterSeconds <= 0 {
		return graph.DefaultRetryAfterBackoff
	}
	return time.Duration(c.RetryAfterSeconds) * time.Second
}

// DefaultDir returns the standard config directory for the current user.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config directory: %w", err)
	}
	return filepath.Join(base, appDirName), nil
}

// LoadOrCreate loads the configuration from the default directory, or
// returns a fresh one with defaults when no file exists yet.
func LoadOrCreate() (*Configuration, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return LoadOrCreateFrom(dir)
}

// LoadOrCreateFrom is LoadOrCreate rooted at an explicit directory. Tests
// point this at a temp dir.
func LoadOrCreateFrom(dir string) (*Configuration, error) {
	cfg := &Configuration{dir: dir}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run; defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("reading configuration: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing configuration: %w", err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnvironment()
	return cfg, nil
}

func (c *Configuration) applyDefaults() {
	if c.ClientID == "" {
		c.ClientID = DefaultClientID
	}
	if c.TenantID == "" {
		c.TenantID = DefaultTenantID
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
}

// applyEnvironment layers .env and SPANALYZER_* variables over the file.
func (c *Configuration) applyEnvironment() {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	if v := os.Getenv("SPANALYZER_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("SPANALYZER_TENANT_ID"); v != "" {
		c.TenantID = v
	}
	if v := os.Getenv("SPANALYZER_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("SPANALYZER_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("SPANALYZER_FORMAT"); v != "" {
		c.Format = v
	}
	if v := os.Getenv("SPANALYZER_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Debug = debug
		}
	}
}

// Save writes the configuration to disk. A file lock guards against two
// analyzer instances clobbering each other's token refresh.
func (c *Configuration) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(c.dir, configFile)
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking configuration file: %w", err)
	}
	if !locked {
		return errors.New("configuration file is locked by another instance")
	}
	defer lock.Unlock()

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	return nil
}

// UpdateToken swaps the stored token and persists immediately so a refresh
// survives the process.
func (c *Configuration) UpdateToken(token graph.Token) error {
	c.Token = token
	return c.Save()
}
