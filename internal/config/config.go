// Package config reads process configuration from TIMESHEET_* environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name.
const Prefix = "TIMESHEET"

// Config holds the tunables shared by the CLI commands.
type Config struct {
	TickRate         time.Duration `envconfig:"TICK_RATE" default:"40ms"`
	MediaUpdateRate  time.Duration `envconfig:"MEDIA_UPDATE_RATE" default:"250ms"`
	SeekEpsilon      float64       `envconfig:"SEEK_EPSILON" default:"0.1"`
	MaxDispatchDepth int           `envconfig:"MAX_DISPATCH_DEPTH" default:"16"`
	LogLevel         string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat        string        `envconfig:"LOG_FORMAT" default:"text"`
	Journal          string        `envconfig:"JOURNAL"`
}

// Load populates a Config from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		TickRate:         40 * time.Millisecond,
		MediaUpdateRate:  250 * time.Millisecond,
		SeekEpsilon:      0.1,
		MaxDispatchDepth: 16,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("%s_TICK_RATE must be positive, got %s", Prefix, c.TickRate)
	}
	if c.MediaUpdateRate <= 0 {
		return fmt.Errorf("%s_MEDIA_UPDATE_RATE must be positive, got %s", Prefix, c.MediaUpdateRate)
	}
	if c.SeekEpsilon < 0 {
		return fmt.Errorf("%s_SEEK_EPSILON must not be negative, got %g", Prefix, c.SeekEpsilon)
	}
	if c.MaxDispatchDepth < 1 {
		return fmt.Errorf("%s_MAX_DISPATCH_DEPTH must be at least 1, got %d", Prefix, c.MaxDispatchDepth)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be text or json, got %q", Prefix, c.LogFormat)
	}
	return nil
}

// Level maps LogLevel onto a slog level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%s_LOG_LEVEL: %w", Prefix, err)
	}
	return level, nil
}

// JSONLogs reports whether logs should be written as JSON.
func (c *Config) JSONLogs() bool {
	return strings.EqualFold(c.LogFormat, "json")
}
