package tock

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func noop(j *Job, _ any) error { return nil }

func TestRegistry_DuplicateName(t *testing.T) {
	first, err := Run("0 0 0 * * *", noop, WithName("reports"))
	require.NoError(t, err)

	_, err = Run("0 0 0 * * *", noop, WithName("reports"))
	require.True(t, errors.Is(err, ErrDuplicateName))

	// Stopping frees the name for reuse.
	first.Stop()
	second, err := Run("0 0 0 * * *", noop, WithName("reports"))
	require.NoError(t, err)
	second.Stop()
}

func TestRegistry_ScheduledJobs(t *testing.T) {
	named, err := Run("0 0 0 * * *", noop, WithName("registry-named"))
	require.NoError(t, err)
	unnamed, err := Run("0 0 0 * * *", noop)
	require.NoError(t, err)

	live := ScheduledJobs()
	require.Contains(t, live, named)
	require.Contains(t, live, unnamed)

	named.Stop()
	unnamed.Stop()

	live = ScheduledJobs()
	require.NotContains(t, live, named)
	require.NotContains(t, live, unnamed)
}

func TestRegistry_Lookup(t *testing.T) {
	job, err := Run("0 0 0 * * *", noop, WithName("registry-lookup"))
	require.NoError(t, err)
	defer job.Stop()

	found, ok := LookupJob("registry-lookup")
	require.True(t, ok)
	require.Same(t, job, found)

	_, ok = LookupJob("registry-missing")
	require.False(t, ok)
}
