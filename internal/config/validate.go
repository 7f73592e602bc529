package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("configuration validation failed:\n")
	for _, err := range e {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}
	return sb.String()
}

var logLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Server.Enabled {
		if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
			errs = append(errs, ValidationError{"server.port", "must be between 1 and 65535"})
		}
		if cfg.Server.Host == "" {
			errs = append(errs, ValidationError{"server.host", "must not be empty"})
		}
	}

	if !logLevels[cfg.Logging.Level] {
		errs = append(errs, ValidationError{"logging.level", fmt.Sprintf("unknown level %q", cfg.Logging.Level)})
	}
	if cfg.Logging.Format != "console" && cfg.Logging.Format != "json" {
		errs = append(errs, ValidationError{"logging.format", `must be "console" or "json"`})
	}

	if cfg.Jobs.Manifest == "" {
		errs = append(errs, ValidationError{"jobs.manifest", "must not be empty"})
	}
	if cfg.Jobs.Timeout <= 0 {
		errs = append(errs, ValidationError{"jobs.timeout", "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
