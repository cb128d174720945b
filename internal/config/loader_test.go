package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/motoko-mcp/internal/config"
	"github.com/aretw0/motoko-mcp/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motoko.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", env(map[string]string{config.EnvAPIKey: "k"}), config.Overrides{})
	require.NoError(t, err)

	assert.Equal(t, &config.Config{
		APIKey:   "k",
		BaseURL:  config.DefaultBaseURL,
		Timeout:  config.DefaultTimeout,
		LogLevel: config.DefaultLogLevel,
	}, cfg)
}

func TestLoad_MissingAPIKey(t *testing.T) {
	_, err := config.Load("", env(nil), config.Overrides{})
	require.Error(t, err)
	assert.True(t, domain.IsStartupError(err))
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "MOTOKO_API_KEY")

	_, err = config.Load("", env(map[string]string{config.EnvAPIKey: "   "}), config.Overrides{})
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, strings.Join([]string{
		"api_key: from-file",
		"base_url: http://file:9000",
		"timeout: 5s",
		"log_level: warn",
		"metrics_addr: 127.0.0.1:9100",
	}, "\n"))

	cfg, err := config.Load(path, env(map[string]string{
		config.EnvBaseURL: "https://env.example",
		config.EnvTimeout: "10s",
	}), config.Overrides{LogLevel: "debug"})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, "https://env.example", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr)
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), env(nil), config.Overrides{})
	assert.True(t, domain.IsStartupError(err))
	assert.Contains(t, err.Error(), "open")

	path := writeFile(t, "api_key: k\nbase_uri: typo\n")
	_, err = config.Load(path, env(nil), config.Overrides{})
	assert.True(t, domain.IsStartupError(err))
	assert.Contains(t, err.Error(), "base_uri")
}

func TestDecodeYAML_Empty(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, config.DecodeYAML(strings.NewReader(""), cfg))
	assert.Equal(t, config.Default(), cfg)
}

func TestApplyEnv_BadTimeout(t *testing.T) {
	err := config.ApplyEnv(config.Default(), env(map[string]string{config.EnvTimeout: "soon"}))
	assert.ErrorContains(t, err, config.EnvTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr []string
	}{
		{
			name:   "Valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "Relative URL",
			mutate:  func(c *config.Config) { c.BaseURL = "/api" },
			wantErr: []string{"must use http or https"},
		},
		{
			name:    "No Host",
			mutate:  func(c *config.Config) { c.BaseURL = "http://" },
			wantErr: []string{"has no host"},
		},
		{
			name:    "Zero Timeout",
			mutate:  func(c *config.Config) { c.Timeout = 0 },
			wantErr: []string{"must be positive"},
		},
		{
			name: "Multiple Failures Joined",
			mutate: func(c *config.Config) {
				c.APIKey = ""
				c.LogLevel = "loud"
			},
			wantErr: []string{"MOTOKO_API_KEY", `unknown log level "loud"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.APIKey = "k"
			tt.mutate(cfg)

			err := config.Validate(cfg)
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestConfig_LogValueHidesKey(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "super-secret"

	v := cfg.LogValue().String()
	assert.NotContains(t, v, "super-secret")
	assert.Contains(t, v, "api_key=set")
	assert.False(t, errors.Is(config.Validate(cfg), config.ErrMissingAPIKey))
}
