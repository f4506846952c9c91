// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP (feed API) server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// GRPCAddr is the address the gRPC health server listens on (e.g. :9090).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// DBMaxOpenConns caps the database/sql pool. Default 10.
	DBMaxOpenConns int `mapstructure:"DB_MAX_OPEN_CONNS"`
	// Env is the application environment (e.g. "development", "production"). Drives log format.
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is one of debug, info, warn, error. Default info.
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint. Empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces a plaintext connection to the collector even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// FeedPollInterval is how often pollers check the watermarks (e.g. "5s").
	FeedPollInterval string `mapstructure:"FEED_POLL_INTERVAL"`
	// FeedFetchTimeout bounds a single source fetch or MAX query (e.g. "10s").
	FeedFetchTimeout string `mapstructure:"FEED_FETCH_TIMEOUT"`
	// FeedEmployeeRole restricts feed rows to employees with this role.
	FeedEmployeeRole string `mapstructure:"FEED_EMPLOYEE_ROLE"`

	// SessionCacheSize is the max number of live polling sessions kept in memory.
	SessionCacheSize int `mapstructure:"SESSION_CACHE_SIZE"`
	// SessionTTL is how long an idle polling session is kept (e.g. "30m").
	SessionTTL string `mapstructure:"SESSION_TTL"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("GRPC_ADDR", ":9090")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "hotelmgt-console")
	v.SetDefault("FEED_POLL_INTERVAL", "5s")
	v.SetDefault("FEED_FETCH_TIMEOUT", "10s")
	v.SetDefault("FEED_EMPLOYEE_ROLE", "Employee")
	v.SetDefault("SESSION_CACHE_SIZE", 256)
	v.SetDefault("SESSION_TTL", "30m")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if strings.TrimSpace(cfg.FeedEmployeeRole) == "" {
		return nil, errors.New("config: FEED_EMPLOYEE_ROLE must not be blank")
	}
	if cfg.DBMaxOpenConns <= 0 {
		cfg.DBMaxOpenConns = 10
	}
	if cfg.SessionCacheSize <= 0 {
		return nil, errors.New("config: SESSION_CACHE_SIZE must be positive")
	}
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("config: LOG_LEVEL must be one of debug, info, warn, error")
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// PollInterval parses FeedPollInterval. Returns 5s if unset or invalid.
func (c *Config) PollInterval() time.Duration {
	return parseDuration(c.FeedPollInterval, 5*time.Second)
}

// FetchTimeout parses FeedFetchTimeout. Returns 10s if unset or invalid.
func (c *Config) FetchTimeout() time.Duration {
	return parseDuration(c.FeedFetchTimeout, 10*time.Second)
}

// SessionIdleTTL parses SessionTTL. Returns 30m if unset or invalid.
func (c *Config) SessionIdleTTL() time.Duration {
	return parseDuration(c.SessionTTL, 30*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
