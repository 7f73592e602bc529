// Package metrics exposes prometheus collectors for the daemon.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	jobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tock_job_runs_total",
			Help: "Total number of job invocations",
		},
		[]string{"job", "status"},
	)

	jobSkipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tock_job_skips_total",
			Help: "Ticks skipped by overlap protection",
		},
		[]string{"job"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tock_job_duration_seconds",
			Help:    "Job command execution time in seconds",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
		},
		[]string{"job"},
	)

	jobsScheduled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tock_jobs_scheduled",
			Help: "Number of live scheduled jobs",
		},
	)

	feedSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tock_event_subscribers",
			Help: "Number of active event feed subscribers",
		},
	)
)

// RecordRun records a completed invocation.
func RecordRun(job string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	jobRunsTotal.WithLabelValues(job, status).Inc()
	jobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// RecordSkip records a tick skipped by overlap protection.
func RecordSkip(job string) {
	jobSkipsTotal.WithLabelValues(job).Inc()
}

// SetScheduledJobs updates the live job gauge.
func SetScheduledJobs(n int) {
	jobsScheduled.Set(float64(n))
}

// SetFeedSubscribers updates the event feed subscriber gauge.
func SetFeedSubscribers(n int) {
	feedSubscribers.Set(float64(n))
}

// Handler returns the prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
