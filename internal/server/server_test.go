package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/watzon/tock"
	"github.com/watzon/tock/internal/config"
	"github.com/watzon/tock/internal/events"
)

type stubManager struct {
	specs   map[string]config.JobSpec
	stopped []string
}

func (s *stubManager) Specs() map[string]config.JobSpec {
	return s.specs
}

func (s *stubManager) StopJob(name string) bool {
	if _, ok := s.specs[name]; !ok {
		return false
	}
	s.stopped = append(s.stopped, name)
	if job, ok := tock.LookupJob(name); ok {
		job.Stop()
	}
	delete(s.specs, name)
	return true
}

func testServer(t *testing.T, manager JobManager) *httptest.Server {
	t.Helper()
	if manager == nil {
		manager = &stubManager{specs: map[string]config.JobSpec{}}
	}
	srv := New(config.Default(), events.NewBus(), manager, "test")
	ts := httptest.NewServer(srv.router)
	t.Cleanup(ts.Close)
	return ts
}

func scheduleJob(t *testing.T, name string) *tock.Job {
	t.Helper()
	job, err := tock.Run("0 0 0 * * *", func(j *tock.Job, _ any) error {
		return nil
	}, tock.WithName(name))
	require.NoError(t, err)
	t.Cleanup(job.Stop)
	return job
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode
}

func postStatus(t *testing.T, url string) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestServer_Health(t *testing.T) {
	ts := testServer(t, nil)

	var body map[string]any
	status := getJSON(t, ts.URL+"/health", &body)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "test", body["version"])
}

func TestServer_ListJobs(t *testing.T) {
	scheduleJob(t, "api-alpha")
	scheduleJob(t, "api-beta")
	scheduleJob(t, "other-gamma")
	ts := testServer(t, nil)

	var body struct {
		Jobs  []JobStatus `json:"jobs"`
		Count int         `json:"count"`
	}
	status := getJSON(t, ts.URL+"/api/jobs?pattern=api-*", &body)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 2, body.Count)
	require.Equal(t, "api-alpha", body.Jobs[0].Name)
	require.Equal(t, "api-beta", body.Jobs[1].Name)

	status = getJSON(t, ts.URL+"/api/jobs?pattern=[", &body)
	require.Equal(t, http.StatusBadRequest, status)
}

func TestServer_GetJob(t *testing.T) {
	scheduleJob(t, "api-get")
	ts := testServer(t, nil)

	var body JobStatus
	status := getJSON(t, ts.URL+"/api/jobs/api-get", &body)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "api-get", body.Name)
	require.Equal(t, "0 0 0 * * *", body.Expression)
	require.True(t, body.Running)
	require.NotNil(t, body.NextRun)

	var errBody ErrorResponse
	status = getJSON(t, ts.URL+"/api/jobs/api-missing", &errBody)
	require.Equal(t, http.StatusNotFound, status)
}

func TestServer_PauseResume(t *testing.T) {
	job := scheduleJob(t, "api-pausable")
	ts := testServer(t, nil)

	require.Equal(t, http.StatusOK, postStatus(t, ts.URL+"/api/jobs/api-pausable/pause"))
	require.True(t, job.IsPaused())

	require.Equal(t, http.StatusOK, postStatus(t, ts.URL+"/api/jobs/api-pausable/resume"))
	require.False(t, job.IsPaused())

	require.Equal(t, http.StatusNotFound, postStatus(t, ts.URL+"/api/jobs/api-missing/pause"))
}

func TestServer_Trigger(t *testing.T) {
	ran := make(chan struct{}, 1)
	job, err := tock.Run("0 0 0 * * *", func(j *tock.Job, _ any) error {
		ran <- struct{}{}
		return nil
	}, tock.WithName("api-trigger"))
	require.NoError(t, err)
	t.Cleanup(job.Stop)

	ts := testServer(t, nil)

	require.Equal(t, http.StatusAccepted, postStatus(t, ts.URL+"/api/jobs/api-trigger/trigger"))
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("trigger did not invoke the callback")
	}
}

func TestServer_Stop(t *testing.T) {
	job := scheduleJob(t, "api-stoppable")
	manager := &stubManager{specs: map[string]config.JobSpec{
		"api-stoppable": {Name: "api-stoppable"},
	}}
	ts := testServer(t, manager)

	require.Equal(t, http.StatusOK, postStatus(t, ts.URL+"/api/jobs/api-stoppable/stop"))
	require.True(t, job.IsStopped())
	require.Equal(t, []string{"api-stoppable"}, manager.stopped)

	require.Equal(t, http.StatusNotFound, postStatus(t, ts.URL+"/api/jobs/api-stoppable/stop"))
}

func TestServer_MetricsEndpoint(t *testing.T) {
	ts := testServer(t, nil)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
