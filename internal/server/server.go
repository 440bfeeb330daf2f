// Package server exposes simulations and saved configurations over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"foliosim/internal/configstore"
	"foliosim/internal/engine"
)

// Config holds server configuration
type Config struct {
	Port    string
	Log     zerolog.Logger
	Source  engine.PriceSource
	Configs *configstore.Store
}

// Server represents the HTTP server
type Server struct {
	router  *chi.Mux
	server  *http.Server
	log     zerolog.Logger
	source  engine.PriceSource
	configs *configstore.Store
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		log:     cfg.Log.With().Str("component", "server").Logger(),
		source:  cfg.Source,
		configs: cfg.Configs,
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/simulate", s.handleSimulate)
		r.Route("/configs", func(r chi.Router) {
			r.Get("/", s.handleListConfigs)
			r.Post("/", s.handleSaveConfig)
			r.Get("/{name}", s.handleGetConfig)
			r.Delete("/{name}", s.handleDeleteConfig)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
