// Package server provides the HTTP server and routing for the autocall
// service.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aristath/autocall/internal/modules/backtest"
	"github.com/aristath/autocall/internal/modules/history"
	"github.com/aristath/autocall/internal/modules/pricing"
)

// Config holds server configuration
type Config struct {
	Log              zerolog.Logger
	Port             int
	DevMode          bool
	PricingHandlers  *pricing.Handlers
	BacktestHandlers *backtest.Handlers
	HistoryHandlers  *history.Handlers
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
	}

	s.setupMiddleware(cfg.DevMode)

	systemHandlers := NewSystemHandlers(cfg.Log)
	s.router.Get("/health", systemHandlers.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		cfg.PricingHandlers.RegisterRoutes(r)
		cfg.BacktestHandlers.RegisterRoutes(r)
		cfg.HistoryHandlers.RegisterRoutes(r)
		r.Get("/system/health", systemHandlers.HandleSystemHealth)
	})

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}

	return s
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)

	// Pricing runs can take a while at high path counts.
	s.router.Use(middleware.Timeout(120 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// loggingMiddleware logs each request with its status and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request")
	})
}

// Start begins serving HTTP requests. Blocks until the server stops.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}
