package tock

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// JobFunc is the user action driven by a Job. The job itself is passed first
// so the action can inspect or stop its own driver; payload is the opaque
// value supplied with WithPayload.
type JobFunc func(job *Job, payload any) error

// maxTimerDelay is the longest single timer the driver will arm. Delays
// beyond it are covered by transparent checkpoint re-arms that do not invoke
// the callback. A variable so tests can shrink it.
var maxTimerDelay = time.Duration(math.MaxInt32) * time.Millisecond

// Job drives a Schedule: it arms a one-shot timer for the next occurrence,
// invokes the action on fire, and re-arms. At most one timer is armed per job
// at any moment. All state transitions are guarded by a single mutex; the
// action itself runs outside the lock, so ticks can overlap unless overlap
// protection is enabled.
type Job struct {
	sched *Schedule
	fn    JobFunc

	mu          sync.Mutex
	timer       *time.Timer
	armed       bool
	stopped     bool
	paused      bool
	running     int
	runsLeft    int // -1 = unbounded
	target      time.Time
	currentRun  time.Time
	previousRun time.Time
}

// Job attaches a driver to the schedule. Extra options are applied on top of
// the schedule's own; the callback is required. The first occurrence is
// computed from now; if the schedule is already exhausted the job is
// returned in the stopped state.
func (s *Schedule) Job(fn JobFunc, opts ...Option) (*Job, error) {
	if fn == nil {
		return nil, fmt.Errorf("job callback must not be nil")
	}

	o := s.opts
	for _, opt := range opts {
		opt(&o)
	}
	if o.tzName != "" && o.tzName != s.opts.tzName {
		loc, err := time.LoadLocation(o.tzName)
		if err != nil {
			return nil, fmt.Errorf("loading timezone %q: %w", o.tzName, err)
		}
		o.loc = loc
	}
	sched := &Schedule{expr: s.expr, comp: s.comp, opts: o}

	j := &Job{
		sched:    sched,
		fn:       fn,
		paused:   o.paused,
		runsLeft: -1,
	}
	if o.maxRuns >= 0 {
		j.runsLeft = o.maxRuns
	}

	if err := registerJob(j); err != nil {
		return nil, err
	}

	next, ok := sched.Next(time.Now())
	if !ok {
		j.stopped = true
		unregisterJob(j)
		return j, nil
	}

	j.mu.Lock()
	j.target = next
	j.armLocked(next)
	j.mu.Unlock()

	return j, nil
}

// Run compiles expr and immediately attaches a driver; shorthand for
// New(expr, opts...) followed by Schedule.Job.
func Run(expr string, fn JobFunc, opts ...Option) (*Job, error) {
	s, err := New(expr, opts...)
	if err != nil {
		return nil, err
	}
	return s.Job(fn)
}

// Schedule returns the job's schedule.
func (j *Job) Schedule() *Schedule { return j.sched }

// Name returns the registered name, or "" for an unnamed job.
func (j *Job) Name() string { return j.sched.opts.name }

// armLocked arms the timer toward target, clamping the delay to
// maxTimerDelay. Caller holds j.mu.
func (j *Job) armLocked(target time.Time) {
	if j.timer != nil {
		j.timer.Stop()
	}
	delay := time.Until(target)
	if delay < 0 {
		delay = 0
	}
	if delay > maxTimerDelay {
		delay = maxTimerDelay
	}
	j.armed = true
	j.target = target
	j.timer = time.AfterFunc(delay, func() { j.fire(target) })
}

// fire handles a timer expiry aimed at target. A fire with wall-clock time
// still short of the target is a checkpoint from long-delay clamping and only
// re-arms.
func (j *Job) fire(target time.Time) {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}

	if time.Until(target) > 0 {
		j.armLocked(target)
		j.mu.Unlock()
		return
	}

	if j.paused {
		stopped := j.scheduleNextLocked(target)
		j.mu.Unlock()
		if stopped {
			unregisterJob(j)
		}
		return
	}

	if j.runsLeft == 0 {
		j.stopLocked()
		j.mu.Unlock()
		unregisterJob(j)
		return
	}

	if j.sched.opts.protect && j.running > 0 {
		stopped := j.scheduleNextLocked(target)
		j.mu.Unlock()
		if stopped {
			unregisterJob(j)
		}
		if fn := j.sched.opts.onSkip; fn != nil {
			fn(j, target)
		}
		return
	}

	if j.runsLeft > 0 {
		j.runsLeft--
	}
	j.running++
	j.currentRun = target
	stopped := j.scheduleNextLocked(target)
	j.mu.Unlock()
	if stopped {
		unregisterJob(j)
	}

	j.invoke(target)
}

// scheduleNextLocked arms the timer for the occurrence after the given
// instant, or stops the job when the schedule (or the run budget) is
// exhausted. Reports whether the job transitioned to stopped, in which case
// the caller must unregister it after releasing the lock.
func (j *Job) scheduleNextLocked(after time.Time) bool {
	next, ok := j.sched.Next(after)
	if !ok || j.runsLeft == 0 {
		j.stopLocked()
		return true
	}
	j.armLocked(next)
	return false
}

// invoke runs the action for the tick at target and settles busy state.
// Panics are recovered and routed through the error policy.
func (j *Job) invoke(target time.Time) {
	err := j.safeCall()

	j.mu.Lock()
	j.previousRun = target
	j.running--
	if j.running <= 0 {
		j.running = 0
		j.currentRun = time.Time{}
	}
	j.mu.Unlock()

	if err == nil {
		return
	}
	switch {
	case j.sched.opts.suppress:
	case j.sched.opts.onError != nil:
		j.sched.opts.onError(j, err)
	default:
		log.Error().Err(err).Str("job", j.Name()).Msg("Job callback failed")
	}
}

func (j *Job) safeCall() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("callback panic: %v", r)
		}
	}()
	return j.fn(j, j.sched.opts.payload)
}

// Trigger invokes the action once, immediately and synchronously. It ignores
// pause and stop state, leaves the armed timer alone, and does not consume
// the run budget. A trigger while a scheduled invocation is in flight simply
// runs alongside it.
func (j *Job) Trigger() {
	now := time.Now()
	j.mu.Lock()
	j.running++
	j.currentRun = now
	j.mu.Unlock()

	j.invoke(now)
}

// Pause suppresses callback invocation while keeping the timer re-arming.
// Returns false if the job is already stopped.
func (j *Job) Pause() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopped {
		return false
	}
	j.paused = true
	return true
}

// Resume clears the paused state. Returns false if the job is stopped.
func (j *Job) Resume() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopped {
		return false
	}
	j.paused = false
	return true
}

// Stop terminally cancels the armed timer and unregisters the job. An
// in-flight invocation is not interrupted, but nothing is re-armed after it.
func (j *Job) Stop() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.stopLocked()
	j.mu.Unlock()
	unregisterJob(j)
}

// stopLocked marks the job stopped and disarms the timer. Caller holds j.mu
// and must unregister the job after releasing it.
func (j *Job) stopLocked() {
	j.stopped = true
	j.armed = false
	if j.timer != nil {
		j.timer.Stop()
		j.timer = nil
	}
}

// IsRunning reports whether the job is armed, not paused, and not stopped.
func (j *Job) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.armed && !j.paused && !j.stopped
}

// IsStopped reports whether the job has been terminally stopped.
func (j *Job) IsStopped() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stopped
}

// IsPaused reports whether invocation is currently suppressed.
func (j *Job) IsPaused() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.paused
}

// IsBusy reports whether an invocation is in flight.
func (j *Job) IsBusy() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running > 0
}

// CurrentRun returns the instant of the currently executing invocation.
func (j *Job) CurrentRun() (time.Time, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.currentRun, !j.currentRun.IsZero()
}

// PreviousRun returns the instant of the last completed invocation.
func (j *Job) PreviousRun() (time.Time, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.previousRun, !j.previousRun.IsZero()
}

// NextRun returns the instant the armed timer is aimed at.
func (j *Job) NextRun() (time.Time, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.armed {
		return time.Time{}, false
	}
	return j.target, true
}

// RunsLeft returns the remaining run budget, or -1 when unbounded.
func (j *Job) RunsLeft() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.runsLeft
}
