package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/watzon/tock"
	"github.com/watzon/tock/internal/config"
	"github.com/watzon/tock/internal/events"
	"github.com/watzon/tock/internal/metrics"
)

// outputTail caps how much command output is kept for logging.
const outputTail = 4096

// action builds the job callback executing the spec's command.
func (r *Runner) action(spec config.JobSpec) tock.JobFunc {
	timeout := spec.Timeout.Std()
	if timeout <= 0 {
		timeout = r.cfg.Jobs.Timeout
	}

	return func(j *tock.Job, _ any) error {
		start := time.Now()
		r.bus.Publish(events.Event{
			Type: events.EventTypeStarted,
			Job:  spec.Name,
			At:   start.UTC(),
		})

		output, err := r.runCommand(spec, timeout)
		elapsed := time.Since(start)
		metrics.RecordRun(spec.Name, elapsed, err)

		event := events.Event{
			Job:      spec.Name,
			Duration: elapsed,
		}
		if next, ok := j.NextRun(); ok {
			event.NextRun = &next
		}

		if err != nil {
			event.Type = events.EventTypeFailed
			event.Error = err.Error()
			r.bus.Publish(event)
			log.Error().
				Err(err).
				Str("job", spec.Name).
				Dur("duration", elapsed).
				Str("output", output).
				Msg("Job command failed")
			return err
		}

		event.Type = events.EventTypeCompleted
		r.bus.Publish(event)
		log.Info().
			Str("job", spec.Name).
			Dur("duration", elapsed).
			Msg("Job command completed")
		return nil
	}
}

// runCommand executes the spec's argv with the configured timeout and
// environment, returning the tail of its combined output.
func (r *Runner) runCommand(spec config.JobSpec, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(r.ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	output := tail(buf.Bytes())

	if ctx.Err() == context.DeadlineExceeded {
		return output, fmt.Errorf("command timed out after %s", timeout)
	}
	if err != nil {
		return output, fmt.Errorf("running command: %w", err)
	}

	log.Debug().Str("job", spec.Name).Str("output", output).Msg("Command output")
	return output, nil
}

func tail(b []byte) string {
	if len(b) > outputTail {
		b = b[len(b)-outputTail:]
	}
	return string(bytes.TrimSpace(b))
}
