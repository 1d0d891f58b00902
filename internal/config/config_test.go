package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "default config is valid", mutate: func(*Config) {}},
		{
			name:    "invalid http port",
			mutate:  func(c *Config) { c.Server.HTTPPort = 0 },
			wantErr: "server config",
		},
		{
			name:    "missing shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "shutdown_timeout",
		},
		{
			name:    "missing data source",
			mutate:  func(c *Config) { c.Data.Source = "" },
			wantErr: "data.source",
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Data.FetchRetries = -1 },
			wantErr: "data.fetch_retries",
		},
		{
			name:    "unknown cache type",
			mutate:  func(c *Config) { c.Cache.Type = "memcached" },
			wantErr: "cache.type",
		},
		{
			name:    "redis without url",
			mutate:  func(c *Config) { c.Cache.Type = "redis" },
			wantErr: "cache.url",
		},
		{
			name:   "disabled cache needs no ttl",
			mutate: func(c *Config) { c.Cache.Type = "none"; c.Cache.TTL = 0 },
		},
		{
			name:    "auth without keys",
			mutate:  func(c *Config) { c.Auth.Enabled = true },
			wantErr: "auth.api_keys",
		},
		{
			name:    "invalid logging level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
		{
			name:    "invalid logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	doc := `
server:
  http_port: 9090
data:
  source: https://example.com/economic_data.csv
  fetch_retries: 5
cache:
  type: redis
  url: redis://localhost:6379/2
  ttl: 1m
  compress: true
logging:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "https://example.com/economic_data.csv", cfg.Data.Source)
	assert.Equal(t, 5, cfg.Data.FetchRetries)
	assert.Equal(t, 30*time.Second, cfg.Data.FetchTimeout)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Compress)
	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("MACROLENS_DATA_SOURCE", "/srv/data.xlsx")
	t.Setenv("MACROLENS_SERVER_HTTP_PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/srv/data.xlsx", cfg.Data.Source)
	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "memory", cfg.Cache.Type)
	assert.True(t, cfg.CacheEnabled())
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
