// Package tock is a cron expression engine and in-process job scheduler.
//
// An expression has six whitespace-separated fields (second, minute, hour,
// day-of-month, month, day-of-week) and compiles into a compact acceptance
// representation that can answer "when does this fire next?" from any
// reference instant:
//
//	sched, err := tock.New("0 30 9 * * MON-FRI")
//	if err != nil {
//	    log.Fatal().Err(err).Msg("bad expression")
//	}
//	next, _ := sched.Next(time.Now())
//
// Attaching a callback turns a schedule into a driven job with pause/resume,
// run limits, time windows, and overlap protection:
//
//	job, err := tock.Run("*/5 * * * * *", func(j *tock.Job, _ any) error {
//	    return doWork()
//	}, tock.WithName("worker"), tock.WithOverlapProtection())
//
// Fixed instants are supported too: an ISO-8601 literal such as
// "2030-01-01T09:00:00Z" compiles to a one-shot schedule that fires once and
// is then exhausted.
package tock
