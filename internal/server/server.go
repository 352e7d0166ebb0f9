// Package server implements the studio HTTP API.
//
// The server exposes the same pipeline the CLI uses: spec storage,
// combination counting, and page generation. Routing is handled by
// chi; all responses are JSON.
//
// # Endpoints
//
//	GET    /healthz             liveness probe
//	GET    /api/specs           list stored specs (kind, owner filters)
//	POST   /api/specs           create or update a spec
//	GET    /api/specs/{id}      fetch one spec
//	DELETE /api/specs/{id}      delete one spec
//	POST   /api/count           combination count for a selection
//	POST   /api/generate        run the full generation pipeline
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mubarakmarafa/studio-style-creator/internal/config"
	"github.com/mubarakmarafa/studio-style-creator/pkg/pipeline"
	"github.com/mubarakmarafa/studio-style-creator/pkg/store"
	"github.com/mubarakmarafa/studio-style-creator/pkg/textfill"
)

// Server wires the pipeline runner and spec store behind HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	cfg    config.Config
	logger *log.Logger
}

// New creates a server. The runner's cache and the store are owned by
// the caller and closed there.
func New(runner *pipeline.Runner, st store.Store, cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, cfg: cfg, logger: logger}
}

// Router builds the chi router with middleware and all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/specs", func(r chi.Router) {
			r.Get("/", s.handleListSpecs)
			r.Post("/", s.handlePutSpec)
			r.Get("/{id}", s.handleGetSpec)
			r.Delete("/{id}", s.handleDeleteSpec)
		})
		r.Post("/count", s.handleCount)
		r.Post("/generate", s.handleGenerate)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// textClient builds the generation client from config, or nil when no
// API key is available (generation then falls back to placeholders).
func (s *Server) textClient() textfill.Client {
	key := s.cfg.TextAPIKey()
	if key == "" {
		return nil
	}
	return textfill.NewHTTPClient(s.cfg.Text.Endpoint, s.cfg.Text.Model, key)
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
