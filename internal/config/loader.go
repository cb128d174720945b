package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aretw0/motoko-mcp/internal/logging"
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is reported when no API key was configured.
var ErrMissingAPIKey = errors.New(EnvAPIKey + " environment variable is required")

// LookupFunc reads one environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load resolves the configuration. path may be empty to skip the YAML file;
// a nil lookup reads the process environment. Every failure is returned as a
// *domain.StartupError.
func Load(path string, lookup LookupFunc, ov Overrides) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			return nil, domain.NewStartupError("config", err)
		}
	}
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, domain.NewStartupError("config", err)
	}
	ov.Apply(cfg)

	if err := Validate(cfg); err != nil {
		return nil, domain.NewStartupError("config", err)
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	if err := DecodeYAML(f, cfg); err != nil {
		return fmt.Errorf("config: parse %q: %w", path, err)
	}
	return nil
}

// DecodeYAML decodes r over cfg. Unknown keys are rejected; an empty
// document leaves cfg untouched.
func DecodeYAML(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

// ApplyEnv overlays the MOTOKO_* variables on cfg. Empty values are ignored.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvAPIKey); ok {
		cfg.APIKey = v
	}
	if v, ok := get(EnvBaseURL); ok {
		cfg.BaseURL = v
	}
	if v, ok := get(EnvTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	if v, ok := get(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := get(EnvMetricsAddr); ok {
		cfg.MetricsAddr = v
	}
	return nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.APIKey) == "" {
		errs = append(errs, ErrMissingAPIKey)
	}

	u, err := url.Parse(cfg.BaseURL)
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("base_url %q is invalid: %w", cfg.BaseURL, err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("base_url %q must use http or https", cfg.BaseURL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("base_url %q has no host", cfg.BaseURL))
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout %s must be positive", cfg.Timeout))
	}

	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w; valid values: debug, info, warn, error", err))
	}

	return errors.Join(errs...)
}
