// Package server exposes the practice service as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/abhisek/pastpapers/internal/practice"
	"github.com/abhisek/pastpapers/internal/progress"
	"github.com/abhisek/pastpapers/internal/usage"
)

// Deps are the services behind the API.
type Deps struct {
	Practice *practice.Service
	Progress *progress.Tracker
	Quota    *usage.Tracker

	// Ping reports backing store health for /healthz. Optional.
	Ping func(ctx context.Context) error
}

// Options configure the HTTP surface.
type Options struct {
	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Server struct {
	deps     Deps
	opts     Options
	validate *validator.Validate
}

func New(deps Deps, opts Options) *Server {
	return &Server{deps: deps, opts: opts, validate: newValidator()}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", userHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/subjects", s.handleSubjects)
		r.Get("/subjects/{subject}/topics", s.handleTopics)
		r.Post("/markscheme/check", s.handleCheckMarkScheme)
		r.Get("/questions/{id}", s.handleGetQuestion)

		r.Group(func(r chi.Router) {
			r.Use(requireUser)
			r.Post("/questions", s.handleRequestQuestion)
			r.Post("/questions/{id}/mark", s.handleMark)
			r.Get("/progress", s.handleProgress)
			r.Get("/progress/recent", s.handleRecent)
			r.Get("/usage", s.handleUsage)
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
