// Package server implements the daemon's admin HTTP API: job inspection and
// control, health, metrics exposition, and the websocket run feed.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/watzon/tock/internal/config"
	"github.com/watzon/tock/internal/events"
)

// JobManager is the part of the runner the API needs: manifest specs and
// authoritative job removal.
type JobManager interface {
	Specs() map[string]config.JobSpec
	StopJob(name string) bool
}

type Server struct {
	cfg        *config.Config
	bus        *events.Bus
	manager    JobManager
	version    string
	router     *Router
	httpServer *http.Server
}

func New(cfg *config.Config, bus *events.Bus, manager JobManager, version string) *Server {
	srv := &Server{
		cfg:     cfg,
		bus:     bus,
		manager: manager,
		version: version,
	}

	srv.router = NewRouter(srv)
	srv.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      srv.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return srv
}

// Start runs the HTTP server until it fails or is shut down.
func (s *Server) Start() error {
	log.Info().
		Str("addr", s.cfg.Server.Address()).
		Msg("Starting admin server")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down admin server")
	return s.httpServer.Shutdown(ctx)
}
