package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration, populated from the
// environment
type Config struct {
	Port        int    `envconfig:"PORT" default:"8080"`
	StorageType string `envconfig:"STORAGE_TYPE" default:"memory"`
	RedisURL    string `envconfig:"REDIS_URL" default:"redis://localhost:6379"`

	PresenceTimeout time.Duration `envconfig:"PRESENCE_TIMEOUT" default:"10s"`
	ReapInterval    time.Duration `envconfig:"REAP_INTERVAL" default:"15s"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// SlogLevel maps the configured log level to a slog.Level, defaulting to
// info for unknown values
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
