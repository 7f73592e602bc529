// Package config provides configuration management for the tock daemon.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration structure for the daemon.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Jobs    JobsConfig    `mapstructure:"jobs"`
}

// ServerConfig holds admin HTTP server settings.
type ServerConfig struct {
	// Enable the admin API server
	Enabled bool `mapstructure:"enabled"`

	// Host to bind the server to
	Host string `mapstructure:"host"`

	// Port to listen on
	Port int `mapstructure:"port"`

	// Request timeouts
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Address returns the host:port the server binds to.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error
	Level string `mapstructure:"level"`

	// Format is "console" or "json"
	Format string `mapstructure:"format"`
}

// MetricsConfig holds prometheus exposition settings.
type MetricsConfig struct {
	// Enable the /metrics endpoint on the admin server
	Enabled bool `mapstructure:"enabled"`
}

// JobsConfig locates and tunes the job manifest.
type JobsConfig struct {
	// Path to the jobs manifest (YAML)
	Manifest string `mapstructure:"manifest"`

	// Watch the manifest and reload on change
	Watch bool `mapstructure:"watch"`

	// Debounce interval for manifest reloads
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`

	// Default timeout applied to job commands without their own
	Timeout time.Duration `mapstructure:"timeout"`
}
