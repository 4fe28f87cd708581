// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes chunking, outlining and chunk scoring over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pdiddy/rulebook-engine/pkg/types"
)

const (
	requestTimeout  = 60 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server is the HTTP API. Requests are stateless: every call chunks the
// submitted text in memory and nothing is written to disk.
type Server struct {
	router  chi.Router
	cfg     types.Config
	anchors []types.SectionAnchor
	log     *slog.Logger
}

// New builds the server. anchors is the catalogue used when a request does
// not bring its own.
func New(cfg types.Config, anchors []types.SectionAnchor, log *slog.Logger) *Server {
	s := &Server{cfg: cfg, anchors: anchors, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(Recoverer(s.log))
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(LimitBody(s.cfg.Server.MaxBodyBytes))
		r.Post("/chunk", s.handleChunk)
		r.Post("/outline", s.handleOutline)
		r.Post("/quality", s.handleQuality)
	})

	s.router = r
}

// ListenAndServe serves on cfg.Server.Addr until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving on %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
