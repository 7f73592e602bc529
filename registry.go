package tock

import (
	"fmt"
	"sync"
)

// The process-wide registry of live jobs. Named jobs additionally claim a
// unique name; every live job, named or not, is enumerable. Entries are
// removed on stop, so the registry never prolongs a driver's lifetime.
var registry = struct {
	sync.RWMutex
	byName map[string]*Job
	live   []*Job
}{byName: make(map[string]*Job)}

func registerJob(j *Job) error {
	registry.Lock()
	defer registry.Unlock()

	if name := j.sched.opts.name; name != "" {
		if _, exists := registry.byName[name]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		registry.byName[name] = j
	}
	registry.live = append(registry.live, j)
	return nil
}

func unregisterJob(j *Job) {
	registry.Lock()
	defer registry.Unlock()

	if name := j.sched.opts.name; name != "" {
		if registry.byName[name] == j {
			delete(registry.byName, name)
		}
	}
	for i, job := range registry.live {
		if job == j {
			registry.live = append(registry.live[:i], registry.live[i+1:]...)
			break
		}
	}
}

// ScheduledJobs returns a snapshot of all live jobs. Stopped jobs do not
// appear.
func ScheduledJobs() []*Job {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]*Job, len(registry.live))
	copy(out, registry.live)
	return out
}

// LookupJob finds a live job by its registered name.
func LookupJob(name string) (*Job, bool) {
	registry.RLock()
	defer registry.RUnlock()
	j, ok := registry.byName[name]
	return j, ok
}
