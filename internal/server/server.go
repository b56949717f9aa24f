// ABOUTME: HTTP server wiring for the notesd API
// ABOUTME: Builds the route table, runs the server, manages graceful shutdown

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/inotebook/notesd/internal/auth"
	"github.com/inotebook/notesd/internal/config"
	"github.com/inotebook/notesd/internal/store"
)

// Server is the notesd HTTP API server.
type Server struct {
	store      store.Store
	codec      *auth.TokenCodec
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a server from configuration and an initialized store.
func New(cfg *config.Config, st store.Store, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("creating token codec: %w", err)
	}

	s := &Server{
		store:  st,
		codec:  codec,
		logger: logger.With("component", "server"),
	}

	resolver := auth.NewResolver(codec, st)
	renewal := auth.NewRenewalPolicy(codec)
	gate := auth.NewGate(resolver, renewal, logger)

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /health/ready", s.handleReady)

	// Public user endpoints
	mux.HandleFunc("POST /api/v1/users/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/users/login", s.handleLogin)

	// Protected endpoints: gate runs verify -> resolve -> renewal before the handler
	mux.HandleFunc("GET /api/v1/users/me", gate.Protect(s.handleMyProfile))
	mux.HandleFunc("GET /api/v1/notes", gate.Protect(s.handleListNotes))
	mux.HandleFunc("POST /api/v1/notes", gate.Protect(s.handleCreateNote))
	mux.HandleFunc("GET /api/v1/notes/{id}", gate.Protect(s.handleGetNote))
	mux.HandleFunc("PUT /api/v1/notes/{id}", gate.Protect(s.handleUpdateNote))
	mux.HandleFunc("DELETE /api/v1/notes/{id}", gate.Protect(s.handleDeleteNote))
	mux.HandleFunc("GET /api/v1/notes/{id}/render", gate.Protect(s.handleRenderNote))

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	// Fresh context: the incoming one is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(shutdownCtx)
}

// handleHealth returns 200 OK while the process is up.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK once the store answers queries.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.GetUser(r.Context(), "readiness-probe"); err != nil && !errors.Is(err, store.ErrNotFound) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("store unavailable"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
