package server

import (
	"net/http"

	"github.com/watzon/tock/internal/metrics"
)

type Router struct {
	server      *Server
	mux         *http.ServeMux
	middlewares []Middleware
}

type Middleware func(http.Handler) http.Handler

func NewRouter(srv *Server) *Router {
	r := &Router{
		server: srv,
		mux:    http.NewServeMux(),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

func (r *Router) setupMiddleware() {
	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
}

func (r *Router) Use(mw Middleware) {
	r.middlewares = append(r.middlewares, mw)
}

func (r *Router) setupRoutes() {
	h := NewHandlers(r.server.manager, r.server.version)

	r.mux.HandleFunc("GET /", h.Health)
	r.mux.HandleFunc("GET /health", h.Health)

	r.mux.HandleFunc("GET /api/jobs", h.ListJobs)
	r.mux.HandleFunc("GET /api/jobs/{name}", h.GetJob)
	r.mux.HandleFunc("POST /api/jobs/{name}/pause", h.PauseJob)
	r.mux.HandleFunc("POST /api/jobs/{name}/resume", h.ResumeJob)
	r.mux.HandleFunc("POST /api/jobs/{name}/trigger", h.TriggerJob)
	r.mux.HandleFunc("POST /api/jobs/{name}/stop", h.StopJob)

	feed := NewFeedHandler(r.server.bus)
	r.mux.HandleFunc("GET /api/events", feed.HandleWebSocket)

	if r.server.cfg.Metrics.Enabled {
		r.mux.Handle("GET /metrics", metrics.Handler())
	}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var handler http.Handler = r.mux
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	handler.ServeHTTP(w, req)
}
