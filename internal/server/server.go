// Package server implements the astviz HTTP API.
//
// Every POST endpoint takes a serialized AST as the request body and returns
// one projection of it. Results are cached by the SHA-256 of the body, so
// posting the same document twice costs one decode.
//
//	POST /api/v1/graph      force-graph JSON (?kind=graph for the node-link document)
//	POST /api/v1/treemap    tree-map (?format=json|yaml|text)
//	POST /api/v1/dot        Graphviz DOT
//	POST /api/v1/render     artifact (?format=svg|png|pdf|dot|json&scale=2)
//	POST /api/v1/refs       reference placeholders and their targets
//	POST /api/v1/resolve    node at ?path=#/...
//	GET  /api/v1/live       WebSocket live projection
//	GET  /healthz
//
// Any endpoint accepts ?keys=plain to read the unprefixed wire format.
// Errors are JSON objects {"code", "message"}.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/astviz/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds request bodies.
const DefaultMaxBodyBytes = 16 << 20

// Server serves the API over a pipeline runner.
type Server struct {
	Runner  *pipeline.Runner
	Options pipeline.Options
	Logger  *log.Logger

	// MaxBodyBytes bounds request bodies; zero uses DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// New creates a server. opts supplies the default keys and scale.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{Runner: runner, Options: opts, Logger: logger}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/graph", s.handleGraph)
		r.Post("/treemap", s.handleTreemap)
		r.Post("/dot", s.handleDOT)
		r.Post("/render", s.handleRender)
		r.Post("/refs", s.handleRefs)
		r.Post("/resolve", s.handleResolve)
		r.Get("/live", s.handleLive)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errNotFound(r.URL.Path))
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
