// Package server exposes solvers, rendering and the document store over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /api/solvers
//	GET    /api/solvers/{name}/params
//	POST   /api/solvers/{name}/estimate
//	POST   /api/solvers/{name}/solve
//	POST   /api/render?format=svg|png|pdf|json|dot
//	GET    /api/documents
//	POST   /api/documents
//	GET    /api/documents/{id}
//	DELETE /api/documents/{id}
//	GET    /api/documents/{id}/runs
//	GET    /api/documents/{id}/render
//
// Layouts travel as layout file text: raw in the body of render requests,
// in the "layout" field of JSON bodies.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/placerlab/placer/pkg/session"
	"github.com/placerlab/placer/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 8 << 20

// Server serves the HTTP API over a shared workspace.
type Server struct {
	ws     *session.Workspace
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New returns a server solving and rendering through ws. st may be nil, in
// which case the document routes answer 501.
func New(ws *session.Workspace, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{ws: ws, store: st, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/solvers", s.listSolvers)
		r.Route("/solvers/{name}", func(r chi.Router) {
			r.Get("/params", s.solverParams)
			r.Post("/estimate", s.estimate)
			r.Post("/solve", s.solve)
		})

		r.Post("/render", s.render)

		r.Route("/documents", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.listDocuments)
			r.Post("/", s.createDocument)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getDocument)
				r.Delete("/", s.deleteDocument)
				r.Get("/runs", s.listRuns)
				r.Get("/render", s.renderDocument)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// logRequests logs one line per request at debug level, and errors at warn.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		kv := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start).Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()),
		}
		if ww.Status() >= http.StatusInternalServerError {
			s.logger.Warn("request failed", kv...)
			return
		}
		s.logger.Debug("request", kv...)
	})
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.store == nil {
			writeMessage(w, http.StatusNotImplemented, "UNSUPPORTED", "document store is not configured")
			return
		}
		next.ServeHTTP(w, r)
	})
}
