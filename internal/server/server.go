// Package server exposes the jeeace HTTP API: evaluation, question
// generation, and persistence of tests and results.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/jeeace/jeeace/internal/auth"
	"github.com/jeeace/jeeace/internal/evaluator"
	"github.com/jeeace/jeeace/internal/questiongen"
	"github.com/jeeace/jeeace/internal/store"
)

// Deps are the collaborators the API needs.
type Deps struct {
	Tests   store.TestRepo
	Results store.ResultRepo

	// Generator serves /api/generate-questions. Nil disables the endpoint.
	Generator questiongen.Generator

	Scheme evaluator.MarkingScheme
	Log    zerolog.Logger

	// AllowedOrigins configures CORS. Empty allows any origin.
	AllowedOrigins []string

	// AuthSecret, when set, requires an HS256 bearer token on every route
	// except health, and scopes per-user routes to the token subject.
	AuthSecret []byte

	// RequestTimeout bounds a single request. Zero uses DefaultRequestTimeout.
	RequestTimeout time.Duration
}

// DefaultRequestTimeout leaves room for multi-batch question generation.
const DefaultRequestTimeout = 5 * time.Minute

// Server is the HTTP API.
type Server struct {
	deps   Deps
	log    zerolog.Logger
	router chi.Router
}

// New builds the router.
func New(deps Deps) *Server {
	if deps.RequestTimeout <= 0 {
		deps.RequestTimeout = DefaultRequestTimeout
	}
	s := &Server{
		deps: deps,
		log:  deps.Log.With().Str("component", "server").Logger(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer)
	r.Use(middleware.Timeout(s.deps.RequestTimeout))

	origins := s.deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			if len(s.deps.AuthSecret) > 0 {
				r.Use(auth.Middleware(s.deps.AuthSecret))
			}
			r.Get("/subjects", s.handleSubjects)
			r.Post("/evaluate", s.handleEvaluate)
			r.Post("/generate-questions", s.handleGenerate)
			r.Post("/save-test", s.handleSaveTest)
			r.Post("/save-test-result", s.handleSaveResult)
			r.Post("/test-history", s.handleTestHistory)
			r.Get("/user-test-results/{userID}", s.handleUserResults)
			r.Get("/user-stats/{userID}", s.handleUserStats)
			r.Get("/test-result/{id}", s.handleResult)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("server listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info().Msg("shutdown complete")
	return nil
}
