// Package server exposes the layout pipeline and link editing over HTTP.
//
// Routes:
//
//	GET    /healthz                       liveness check
//	GET    /api/scene                     scene JSON, ETag = scene fingerprint
//	GET    /api/render/{format}           rendered artifact (svg, png, pdf, json, dot)
//	GET    /api/nodes                     the stored document
//	POST   /api/links                     merge a link request
//	DELETE /api/links/{parent}/{child}    remove one relation
//
// Every request is answered with an X-Request-ID header and reported to the
// registered [observability.HTTPHooks].
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/radialtree/pkg/pipeline"
	"github.com/matzehuels/radialtree/pkg/store"
)

// Server serves one hierarchy store.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	// writeMu serializes load-merge-save cycles so concurrent link requests
	// don't lose each other's updates.
	writeMu sync.Mutex

	router chi.Router
}

// New creates a server. opts supplies the render settings used when a
// request does not override them.
func New(st store.Store, runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		store:  st,
		runner: runner,
		opts:   opts,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/scene", s.handleScene)
		r.Get("/render/{format}", s.handleRender)
		r.Get("/nodes", s.handleNodes)
		r.Post("/links", s.handleLink)
		r.Delete("/links/{parent}/{child}", s.handleUnlink)
	})
	return r
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// shutdownTimeout bounds how long in-flight requests may finish after the
// context passed to ListenAndServe is canceled.
const shutdownTimeout = 5 * time.Second

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
