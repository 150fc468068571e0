// Package config loads CLI configuration from an HCL file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config holds all recognized options.
type Config struct {
	// BaseURL is the app's API endpoint.
	BaseURL string `hcl:"base_url,optional"`

	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `hcl:"timeout_seconds,optional"`

	// CacheTTLSeconds is the lifetime of name-resolution cache entries.
	CacheTTLSeconds int `hcl:"cache_ttl_seconds,optional"`

	// CaseInsensitive makes name matching case-insensitive. Cache keys stay
	// literal strings regardless.
	CaseInsensitive bool `hcl:"case_insensitive,optional"`

	// AppIdentifier is shown in the app's pairing dialog during the
	// credential-issuance handshake.
	AppIdentifier string `hcl:"app_identifier,optional"`

	// TokenPath overrides where the bearer token is stored on disk.
	TokenPath string `hcl:"token_path,optional"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		BaseURL:         "http://localhost:31009",
		TimeoutSeconds:  30,
		CacheTTLSeconds: 300,
		AppIdentifier:   "lodestone-cli",
	}
}

// Load builds the effective configuration: defaults, then the HCL file at
// path (if given), then LODESTONE_* environment variables, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("configuration file not found: %s", path)
		}

		var fileCfg Config
		if err := hclsimple.DecodeFile(path, nil, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file: %w", err)
		}
		cfg.merge(&fileCfg)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// merge overlays non-zero values from other.
func (c *Config) merge(other *Config) {
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if other.TimeoutSeconds != 0 {
		c.TimeoutSeconds = other.TimeoutSeconds
	}
	if other.CacheTTLSeconds != 0 {
		c.CacheTTLSeconds = other.CacheTTLSeconds
	}
	if other.CaseInsensitive {
		c.CaseInsensitive = true
	}
	if other.AppIdentifier != "" {
		c.AppIdentifier = other.AppIdentifier
	}
	if other.TokenPath != "" {
		c.TokenPath = other.TokenPath
	}
}

// applyEnv overlays LODESTONE_* environment variables. Parse failures for
// every malformed variable are reported together.
func (c *Config) applyEnv() error {
	var errs *multierror.Error

	if v := os.Getenv("LODESTONE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("LODESTONE_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("LODESTONE_TIMEOUT_SECONDS: %w", err))
		} else {
			c.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("LODESTONE_CACHE_TTL_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("LODESTONE_CACHE_TTL_SECONDS: %w", err))
		} else {
			c.CacheTTLSeconds = n
		}
	}
	if v := os.Getenv("LODESTONE_CASE_INSENSITIVE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("LODESTONE_CASE_INSENSITIVE: %w", err))
		} else {
			c.CaseInsensitive = b
		}
	}
	if v := os.Getenv("LODESTONE_APP_IDENTIFIER"); v != "" {
		c.AppIdentifier = v
	}
	if v := os.Getenv("LODESTONE_TOKEN_PATH"); v != "" {
		c.TokenPath = v
	}

	return errs.ErrorOrNil()
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.TimeoutSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.CacheTTLSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.AppIdentifier, validation.Required),
	)
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns the cache entry lifetime as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
