// Package runner turns manifest job definitions into live scheduled jobs
// executing commands, and keeps them in sync with the manifest on disk.
package runner

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/watzon/tock"
	"github.com/watzon/tock/internal/config"
	"github.com/watzon/tock/internal/events"
	"github.com/watzon/tock/internal/metrics"
)

// gaugeRefreshInterval is how often the scheduled-jobs gauge is reconciled
// with the registry, catching jobs that stopped on their own (run limits,
// exhausted schedules).
const gaugeRefreshInterval = 10 * time.Second

type entry struct {
	spec config.JobSpec
	job  *tock.Job
}

// Runner owns the daemon's job set.
type Runner struct {
	cfg     *config.Config
	bus     *events.Bus
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	watcher *Watcher

	mu   sync.Mutex
	jobs map[string]*entry
}

// New creates a runner for the given configuration.
func New(cfg *config.Config, bus *events.Bus) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		cfg:    cfg,
		bus:    bus,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*entry),
	}
}

// Start loads the manifest, schedules its jobs, and begins watching for
// manifest changes when configured to.
func (r *Runner) Start() error {
	manifest, err := config.LoadManifest(r.cfg.Jobs.Manifest)
	if err != nil {
		return fmt.Errorf("loading manifest: %w", err)
	}

	if err := r.apply(manifest); err != nil {
		return err
	}

	if r.cfg.Jobs.Watch {
		watcher, err := NewWatcher(r.cfg.Jobs.Manifest, r.cfg.Jobs.WatchDebounce, func() {
			if err := r.Reload(); err != nil {
				log.Error().Err(err).Msg("Manifest reload failed; keeping previous jobs")
			}
		})
		if err != nil {
			return fmt.Errorf("watching manifest: %w", err)
		}
		r.watcher = watcher
	}

	r.wg.Add(1)
	go r.gaugeLoop()

	log.Info().
		Int("jobs", len(manifest.Jobs)).
		Str("manifest", r.cfg.Jobs.Manifest).
		Bool("watch", r.cfg.Jobs.Watch).
		Msg("Runner started")
	return nil
}

// Reload re-reads the manifest and applies the difference: removed or changed
// jobs are stopped, new or changed ones are started. Unchanged jobs keep
// their state, including pause and run counters.
func (r *Runner) Reload() error {
	manifest, err := config.LoadManifest(r.cfg.Jobs.Manifest)
	if err != nil {
		return err
	}
	if err := r.apply(manifest); err != nil {
		return err
	}
	log.Info().Int("jobs", len(manifest.Jobs)).Msg("Manifest reloaded")
	return nil
}

// Stop terminates every job and the watcher. Running commands are killed
// through context cancellation.
func (r *Runner) Stop() {
	if r.watcher != nil {
		r.watcher.Close()
	}
	r.cancel()

	r.mu.Lock()
	for name, e := range r.jobs {
		e.job.Stop()
		r.publishStopped(name)
		delete(r.jobs, name)
	}
	r.mu.Unlock()

	r.wg.Wait()
	metrics.SetScheduledJobs(0)
	log.Info().Msg("Runner stopped")
}

// StopJob stops and forgets a single managed job. Reports whether the job
// was known to the runner.
func (r *Runner) StopJob(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.jobs[name]
	if !ok {
		return false
	}
	e.job.Stop()
	r.publishStopped(name)
	delete(r.jobs, name)
	metrics.SetScheduledJobs(len(r.jobs))
	return true
}

// Specs returns the manifest definition of every managed job.
func (r *Runner) Specs() map[string]config.JobSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]config.JobSpec, len(r.jobs))
	for name, e := range r.jobs {
		out[name] = e.spec
	}
	return out
}

func (r *Runner) apply(manifest *config.Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]config.JobSpec, len(manifest.Jobs))
	for _, spec := range manifest.Jobs {
		wanted[spec.Name] = spec
	}

	// Stop jobs that disappeared or changed.
	for name, e := range r.jobs {
		spec, keep := wanted[name]
		if keep && reflect.DeepEqual(spec, e.spec) {
			continue
		}
		e.job.Stop()
		r.publishStopped(name)
		delete(r.jobs, name)
		log.Debug().Str("job", name).Msg("Job stopped by manifest change")
	}

	// Start new and changed jobs.
	for name, spec := range wanted {
		if _, exists := r.jobs[name]; exists {
			continue
		}
		if err := r.startJobLocked(spec); err != nil {
			return fmt.Errorf("starting job %q: %w", name, err)
		}
	}

	metrics.SetScheduledJobs(len(r.jobs))
	return nil
}

func (r *Runner) startJobLocked(spec config.JobSpec) error {
	opts, err := spec.Options()
	if err != nil {
		return err
	}
	opts = append(opts,
		tock.WithOnError(func(j *tock.Job, err error) {
			log.Error().Err(err).Str("job", j.Name()).Msg("Job run failed")
		}),
		tock.WithOnSkip(func(j *tock.Job, at time.Time) {
			metrics.RecordSkip(j.Name())
			r.bus.Publish(events.Event{
				Type: events.EventTypeSkipped,
				Job:  j.Name(),
				At:   at,
			})
			log.Warn().Str("job", j.Name()).Time("tick", at).Msg("Tick skipped, previous run still busy")
		}),
	)

	sched, err := tock.New(spec.Expression, opts...)
	if err != nil {
		return err
	}
	job, err := sched.Job(r.action(spec))
	if err != nil {
		return err
	}

	r.jobs[spec.Name] = &entry{spec: spec, job: job}

	event := events.Event{Type: events.EventTypeScheduled, Job: spec.Name}
	if next, ok := job.NextRun(); ok {
		event.NextRun = &next
	}
	r.bus.Publish(event)

	log.Info().
		Str("job", spec.Name).
		Str("expression", spec.Expression).
		Msg("Job scheduled")
	return nil
}

func (r *Runner) publishStopped(name string) {
	r.bus.Publish(events.Event{Type: events.EventTypeStopped, Job: name})
}

func (r *Runner) gaugeLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(gaugeRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			metrics.SetScheduledJobs(len(tock.ScheduledJobs()))
		}
	}
}
