// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers defaults, an optional YAML file and ACTIVITIES_* env vars.
//   - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// SeedFile optionally points at a YAML file replacing the built-in activities.
	SeedFile string `koanf:"seed_file"`

	// LandingPage is the redirect target for GET /.
	LandingPage string `koanf:"landing_page"`

	// MetricsIntervalMS sets how often gauges are refreshed in the background.
	MetricsIntervalMS int `koanf:"metrics_interval_ms"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8000",
		LandingPage:       "/static/index.html",
		MetricsIntervalMS: 10_000,
	}
}

// Validate reports the first invalid setting, wrapped with ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case !strings.HasPrefix(c.LandingPage, "/"):
		return fmt.Errorf("%w: landing_page must be an absolute path, got %q", ErrInvalidConfig, c.LandingPage)
	case c.MetricsIntervalMS <= 0:
		return fmt.Errorf("%w: metrics_interval_ms must be positive", ErrInvalidConfig)
	}
	return nil
}
