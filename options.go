package tock

import "time"

// Option configures a Schedule or a Job. Options are applied at construction
// and are immutable afterwards.
type Option func(*scheduleOptions)

type scheduleOptions struct {
	name     string
	loc      *time.Location
	tzName   string
	startAt  time.Time
	stopAt   time.Time
	maxRuns  int // -1 = unbounded
	paused   bool
	strict   bool
	protect  bool
	payload  any
	onError  func(*Job, error)
	onSkip   func(*Job, time.Time)
	suppress bool
}

func defaultOptions() scheduleOptions {
	return scheduleOptions{
		loc:     time.Local,
		maxRuns: -1,
	}
}

// WithName registers the job under a unique name. Named jobs can be looked up
// and must be unique among live jobs.
func WithName(name string) Option {
	return func(o *scheduleOptions) { o.name = name }
}

// WithLocation sets the location used for calendar decomposition and for
// anchoring timestamp literals without an explicit UTC marker.
// Default: time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *scheduleOptions) { o.loc = loc }
}

// WithTimezone is WithLocation by IANA zone name, resolved at construction.
func WithTimezone(name string) Option {
	return func(o *scheduleOptions) { o.tzName = name }
}

// WithStartAt clamps evaluation so that no instant before at is emitted; an
// instant equal to at is still emittable.
func WithStartAt(at time.Time) Option {
	return func(o *scheduleOptions) { o.startAt = at }
}

// WithStopAt exhausts the schedule once the next occurrence would fall after
// at.
func WithStopAt(at time.Time) Option {
	return func(o *scheduleOptions) { o.stopAt = at }
}

// WithMaxRuns bounds the number of invocations. Values <= 0 mean the job
// never runs; leaving the option unset means unbounded.
func WithMaxRuns(n int) Option {
	return func(o *scheduleOptions) {
		if n < 0 {
			n = 0
		}
		o.maxRuns = n
	}
}

// WithPaused starts the job in the paused state: its timer fires and re-arms,
// but the callback is not invoked until Resume.
func WithPaused() Option {
	return func(o *scheduleOptions) { o.paused = true }
}

// WithStrictDays selects strict day semantics: when both day-of-month and
// day-of-week are constrained, an instant must satisfy both. The default
// legacy semantics accept an instant satisfying either.
func WithStrictDays() Option {
	return func(o *scheduleOptions) { o.strict = true }
}

// WithOverlapProtection skips a tick when the previous invocation has not yet
// completed.
func WithOverlapProtection() Option {
	return func(o *scheduleOptions) { o.protect = true }
}

// WithPayload passes an opaque value to every invocation of the callback.
func WithPayload(payload any) Option {
	return func(o *scheduleOptions) { o.payload = payload }
}

// WithOnError delivers callback errors (including recovered panics) to fn
// instead of the default log sink. The job continues scheduling regardless.
func WithOnError(fn func(*Job, error)) Option {
	return func(o *scheduleOptions) { o.onError = fn }
}

// WithOnSkip is notified with the tick instant whenever overlap protection
// skips an invocation.
func WithOnSkip(fn func(*Job, time.Time)) Option {
	return func(o *scheduleOptions) { o.onSkip = fn }
}

// WithSuppressedErrors swallows callback errors silently.
func WithSuppressedErrors() Option {
	return func(o *scheduleOptions) { o.suppress = true }
}
