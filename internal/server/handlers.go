package server

import (
	"net/http"
	"sort"
	"time"

	"github.com/gobwas/glob"

	"github.com/watzon/tock"
)

// Handlers implements the job inspection and control endpoints.
type Handlers struct {
	manager JobManager
	version string
	started time.Time
}

func NewHandlers(manager JobManager, version string) *Handlers {
	return &Handlers{
		manager: manager,
		version: version,
		started: time.Now(),
	}
}

// JobStatus is the wire representation of a job.
type JobStatus struct {
	Name        string     `json:"name"`
	Expression  string     `json:"expression"`
	Command     []string   `json:"command,omitempty"`
	Running     bool       `json:"running"`
	Paused      bool       `json:"paused"`
	Stopped     bool       `json:"stopped"`
	Busy        bool       `json:"busy"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	PreviousRun *time.Time `json:"previous_run,omitempty"`
	CurrentRun  *time.Time `json:"current_run,omitempty"`
	RunsLeft    *int       `json:"runs_left,omitempty"`
}

func (h *Handlers) status(job *tock.Job) JobStatus {
	s := JobStatus{
		Name:       job.Name(),
		Expression: job.Schedule().Expression(),
		Running:    job.IsRunning(),
		Paused:     job.IsPaused(),
		Stopped:    job.IsStopped(),
		Busy:       job.IsBusy(),
	}
	if spec, ok := h.manager.Specs()[job.Name()]; ok {
		s.Command = spec.Command
	}
	if next, ok := job.NextRun(); ok {
		s.NextRun = &next
	}
	if prev, ok := job.PreviousRun(); ok {
		s.PreviousRun = &prev
	}
	if cur, ok := job.CurrentRun(); ok {
		s.CurrentRun = &cur
	}
	if left := job.RunsLeft(); left >= 0 {
		s.RunsLeft = &left
	}
	return s
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
		"jobs":    len(tock.ScheduledJobs()),
	})
}

// ListJobs handles GET /api/jobs. An optional ?pattern= glob filters by name.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	var matcher glob.Glob
	if pattern := r.URL.Query().Get("pattern"); pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			BadRequest(w, "Invalid glob pattern")
			return
		}
		matcher = g
	}

	statuses := []JobStatus{}
	for _, job := range tock.ScheduledJobs() {
		if matcher != nil && !matcher.Match(job.Name()) {
			continue
		}
		statuses = append(statuses, h.status(job))
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })

	JSON(w, http.StatusOK, map[string]any{
		"jobs":  statuses,
		"count": len(statuses),
	})
}

// GetJob handles GET /api/jobs/{name}.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := tock.LookupJob(r.PathValue("name"))
	if !ok {
		NotFound(w, "Job not found")
		return
	}
	JSON(w, http.StatusOK, h.status(job))
}

// PauseJob handles POST /api/jobs/{name}/pause.
func (h *Handlers) PauseJob(w http.ResponseWriter, r *http.Request) {
	job, ok := tock.LookupJob(r.PathValue("name"))
	if !ok {
		NotFound(w, "Job not found")
		return
	}
	if !job.Pause() {
		Conflict(w, "Job is stopped")
		return
	}
	JSON(w, http.StatusOK, h.status(job))
}

// ResumeJob handles POST /api/jobs/{name}/resume.
func (h *Handlers) ResumeJob(w http.ResponseWriter, r *http.Request) {
	job, ok := tock.LookupJob(r.PathValue("name"))
	if !ok {
		NotFound(w, "Job not found")
		return
	}
	if !job.Resume() {
		Conflict(w, "Job is stopped")
		return
	}
	JSON(w, http.StatusOK, h.status(job))
}

// TriggerJob handles POST /api/jobs/{name}/trigger. The invocation runs in
// the background; the response does not wait for it.
func (h *Handlers) TriggerJob(w http.ResponseWriter, r *http.Request) {
	job, ok := tock.LookupJob(r.PathValue("name"))
	if !ok {
		NotFound(w, "Job not found")
		return
	}
	go job.Trigger()
	JSON(w, http.StatusAccepted, map[string]string{"status": "triggered"})
}

// StopJob handles POST /api/jobs/{name}/stop.
func (h *Handlers) StopJob(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if h.manager.StopJob(name) {
		JSON(w, http.StatusOK, map[string]string{"status": "stopped"})
		return
	}
	// Jobs scheduled outside the manifest are stopped directly.
	job, ok := tock.LookupJob(name)
	if !ok {
		NotFound(w, "Job not found")
		return
	}
	job.Stop()
	JSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}
