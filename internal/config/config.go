// Package config resolves the gateway settings from defaults, an optional
// YAML file, the environment and command-line overrides, in that order.
package config

import (
	"log/slog"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey      = "MOTOKO_API_KEY"
	EnvBaseURL     = "MOTOKO_API_URL"
	EnvTimeout     = "MOTOKO_TIMEOUT"
	EnvLogLevel    = "MOTOKO_LOG_LEVEL"
	EnvMetricsAddr = "MOTOKO_METRICS_ADDR"
)

// Defaults.
const (
	DefaultBaseURL  = "http://localhost:8000"
	DefaultTimeout  = 60 * time.Second
	DefaultLogLevel = "info"
)

// Config holds the resolved gateway settings.
type Config struct {
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	LogLevel    string        `yaml:"log_level"`
	MetricsAddr string        `yaml:"metrics_addr"`
}

// Default returns a Config populated with defaults and no API key.
func Default() *Config {
	return &Config{
		BaseURL:  DefaultBaseURL,
		Timeout:  DefaultTimeout,
		LogLevel: DefaultLogLevel,
	}
}

// Overrides carries command-line values. Zero fields leave the config as is.
type Overrides struct {
	BaseURL     string
	Timeout     time.Duration
	LogLevel    string
	MetricsAddr string
}

// Apply copies the non-zero overrides into cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.BaseURL != "" {
		cfg.BaseURL = o.BaseURL
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.MetricsAddr != "" {
		cfg.MetricsAddr = o.MetricsAddr
	}
}

// LogValue keeps the API key out of log output.
func (c Config) LogValue() slog.Value {
	key := "unset"
	if c.APIKey != "" {
		key = "set"
	}
	return slog.GroupValue(
		slog.String("base_url", c.BaseURL),
		slog.Duration("timeout", c.Timeout),
		slog.String("log_level", c.LogLevel),
		slog.String("metrics_addr", c.MetricsAddr),
		slog.String("api_key", key),
	)
}
