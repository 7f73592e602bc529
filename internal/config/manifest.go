package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/watzon/tock"
)

// Manifest is the jobs file: a list of job definitions loaded at startup and
// re-loaded when the file changes.
type Manifest struct {
	Jobs []JobSpec `yaml:"jobs"`
}

// JobSpec defines one scheduled command.
type JobSpec struct {
	Name       string            `yaml:"name"`
	Expression string            `yaml:"expression"`
	Command    []string          `yaml:"command"`
	Timezone   string            `yaml:"timezone,omitempty"`
	MaxRuns    *int              `yaml:"max_runs,omitempty"`
	StartAt    string            `yaml:"start_at,omitempty"`
	StopAt     string            `yaml:"stop_at,omitempty"`
	Paused     bool              `yaml:"paused,omitempty"`
	Protect    bool              `yaml:"protect,omitempty"`
	StrictDays bool              `yaml:"strict_days,omitempty"`
	Timeout    Duration          `yaml:"timeout,omitempty"`
	Env        map[string]string `yaml:"env,omitempty"`
}

// LoadManifest reads and validates a jobs manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks every job definition: unique non-empty names, compilable
// expressions, non-empty commands, and parseable time bounds.
func (m *Manifest) Validate() error {
	var errs ValidationErrors
	seen := make(map[string]bool)

	for i, spec := range m.Jobs {
		field := fmt.Sprintf("jobs[%d]", i)
		if spec.Name == "" {
			errs = append(errs, ValidationError{field + ".name", "must not be empty"})
		} else if seen[spec.Name] {
			errs = append(errs, ValidationError{field + ".name", fmt.Sprintf("duplicate name %q", spec.Name)})
		}
		seen[spec.Name] = true

		opts := []tock.Option{}
		if spec.Timezone != "" {
			opts = append(opts, tock.WithTimezone(spec.Timezone))
		}
		if _, err := tock.New(spec.Expression, opts...); err != nil {
			errs = append(errs, ValidationError{field + ".expression", err.Error()})
		}

		if len(spec.Command) == 0 {
			errs = append(errs, ValidationError{field + ".command", "must not be empty"})
		}

		if _, err := spec.StartTime(); err != nil {
			errs = append(errs, ValidationError{field + ".start_at", err.Error()})
		}
		if _, err := spec.StopTime(); err != nil {
			errs = append(errs, ValidationError{field + ".stop_at", err.Error()})
		}
		if spec.Timeout < 0 {
			errs = append(errs, ValidationError{field + ".timeout", "must not be negative"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// StartTime parses the optional start_at bound.
func (s *JobSpec) StartTime() (time.Time, error) {
	return parseBound(s.StartAt)
}

// StopTime parses the optional stop_at bound.
func (s *JobSpec) StopTime() (time.Time, error) {
	return parseBound(s.StopAt)
}

func parseBound(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not RFC3339", tock.ErrInvalidReference, raw)
	}
	return t, nil
}

// Options translates the spec into schedule options for the engine.
func (s *JobSpec) Options() ([]tock.Option, error) {
	opts := []tock.Option{tock.WithName(s.Name)}

	if s.Timezone != "" {
		opts = append(opts, tock.WithTimezone(s.Timezone))
	}
	if s.MaxRuns != nil {
		opts = append(opts, tock.WithMaxRuns(*s.MaxRuns))
	}
	if start, err := s.StartTime(); err != nil {
		return nil, err
	} else if !start.IsZero() {
		opts = append(opts, tock.WithStartAt(start))
	}
	if stop, err := s.StopTime(); err != nil {
		return nil, err
	} else if !stop.IsZero() {
		opts = append(opts, tock.WithStopAt(stop))
	}
	if s.Paused {
		opts = append(opts, tock.WithPaused())
	}
	if s.Protect {
		opts = append(opts, tock.WithOverlapProtection())
	}
	if s.StrictDays {
		opts = append(opts, tock.WithStrictDays())
	}
	return opts, nil
}
