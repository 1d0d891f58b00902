package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the dashboard service configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig is the HTTP listener
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	// AllowOrigins is passed to the CORS middleware; empty disables it
	AllowOrigins string `mapstructure:"allow_origins"`
}

// DataConfig locates the dataset and the static catalog
type DataConfig struct {
	Source       string        `mapstructure:"source"`       // file path or http(s) URL
	CatalogPath  string        `mapstructure:"catalog_path"` // empty uses the embedded catalog
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	FetchRetries int           `mapstructure:"fetch_retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
}

// CacheConfig configures memoization of derived results
type CacheConfig struct {
	Type      string        `mapstructure:"type"` // none, memory, redis
	URL       string        `mapstructure:"url"`  // redis://host:port/db
	TTL       time.Duration `mapstructure:"ttl"`
	Compress  bool          `mapstructure:"compress"`
	KeyPrefix string        `mapstructure:"key_prefix"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	APIKeys []string `mapstructure:"api_keys"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, DateTime, Kitchen
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Data.Validate(); err != nil {
		return fmt.Errorf("data config: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return fmt.Errorf("cache config: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}

// Validate validates data configuration
func (c *DataConfig) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("data.source is required")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("data.fetch_timeout must be positive")
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("data.fetch_retries cannot be negative")
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("data.retry_delay cannot be negative")
	}
	return nil
}

// Validate validates cache configuration
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "none", "memory":
	case "redis":
		if c.URL == "" {
			return fmt.Errorf("cache.url is required for redis")
		}
		if _, err := url.Parse(c.URL); err != nil {
			return fmt.Errorf("invalid cache.url: %w", err)
		}
	default:
		return fmt.Errorf("cache.type must be one of: none, memory, redis")
	}
	if c.Type != "none" && c.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	return nil
}

// Validate validates auth configuration
func (c *AuthConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	for _, k := range c.APIKeys {
		if k == "" {
			return fmt.Errorf("auth.api_keys cannot contain an empty key")
		}
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}
	return nil
}
