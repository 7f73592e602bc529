package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/watzon/tock"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
jobs:
  - name: backup
    expression: "0 0 3 * * *"
    command: ["/usr/local/bin/backup", "--quiet"]
    timezone: UTC
    timeout: 30m
    protect: true
    env:
      BACKUP_TARGET: /srv/data
  - name: heartbeat
    expression: "*/30 * * * * *"
    command: ["curl", "-fsS", "https://example.com/ping"]
    max_runs: 10
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Jobs, 2)

	backup := m.Jobs[0]
	require.Equal(t, "backup", backup.Name)
	require.Equal(t, []string{"/usr/local/bin/backup", "--quiet"}, backup.Command)
	require.Equal(t, 30*time.Minute, backup.Timeout.Std())
	require.True(t, backup.Protect)
	require.Equal(t, "/srv/data", backup.Env["BACKUP_TARGET"])

	require.NotNil(t, m.Jobs[1].MaxRuns)
	require.Equal(t, 10, *m.Jobs[1].MaxRuns)
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "bad expression",
			content: `
jobs:
  - name: broken
    expression: "61 * * * * *"
    command: ["true"]
`,
			wantErr: "jobs[0].expression",
		},
		{
			name: "missing command",
			content: `
jobs:
  - name: armless
    expression: "* * * * * *"
`,
			wantErr: "jobs[0].command",
		},
		{
			name: "duplicate names",
			content: `
jobs:
  - name: twin
    expression: "* * * * * *"
    command: ["true"]
  - name: twin
    expression: "* * * * * *"
    command: ["true"]
`,
			wantErr: "duplicate name",
		},
		{
			name: "bad start_at",
			content: `
jobs:
  - name: windowed
    expression: "* * * * * *"
    command: ["true"]
    start_at: "next tuesday"
`,
			wantErr: "jobs[0].start_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tt.content))
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJobSpec_BadBoundIsInvalidReference(t *testing.T) {
	spec := JobSpec{StartAt: "tomorrow"}
	_, err := spec.StartTime()
	require.True(t, errors.Is(err, tock.ErrInvalidReference))
}

func TestJobSpec_Options(t *testing.T) {
	limit := 5
	spec := JobSpec{
		Name:       "windowed",
		Expression: "0 0 12 * * *",
		Command:    []string{"true"},
		MaxRuns:    &limit,
		StartAt:    "2030-01-01T00:00:00Z",
		StopAt:     "2031-01-01T00:00:00Z",
		StrictDays: true,
	}

	opts, err := spec.Options()
	require.NoError(t, err)

	sched, err := tock.New(spec.Expression, opts...)
	require.NoError(t, err)

	// The window bounds apply: nothing before 2030, nothing after 2031.
	next, ok := sched.Next(time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	require.Equal(t, 2030, next.Year())

	_, ok = sched.Next(time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC))
	require.False(t, ok)
}
