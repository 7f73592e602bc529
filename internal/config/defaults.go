package config

import "time"

// Default configuration values.
const (
	// Server defaults.
	DefaultHost         = "localhost"
	DefaultPort         = 8707
	DefaultReadTimeout  = 15 * time.Second
	DefaultWriteTimeout = 15 * time.Second
	DefaultIdleTimeout  = 120 * time.Second

	// Logging defaults.
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	// Jobs defaults.
	DefaultManifest      = "jobs.yaml"
	DefaultWatchDebounce = 500 * time.Millisecond
	DefaultJobTimeout    = time.Hour
)

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Enabled:      true,
			Host:         DefaultHost,
			Port:         DefaultPort,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
			IdleTimeout:  DefaultIdleTimeout,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		Jobs: JobsConfig{
			Manifest:      DefaultManifest,
			Watch:         true,
			WatchDebounce: DefaultWatchDebounce,
			Timeout:       DefaultJobTimeout,
		},
	}
}
