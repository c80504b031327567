// Package web provides the HTTP server and handlers for the number analyzer.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/numanalyzer/internal/config"
	"github.com/JonMunkholm/numanalyzer/internal/core"
	"github.com/JonMunkholm/numanalyzer/internal/metrics"
	appmw "github.com/JonMunkholm/numanalyzer/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the number analyzer.
type Server struct {
	cfg      config.ServerConfig
	defaults core.Settings
	router   *chi.Mux
	server   *http.Server
	limiter  *analysisLimiter
}

// NewServer creates a Server. defaults are the analysis settings used when a
// request does not override them.
func NewServer(cfg config.ServerConfig, defaults core.Settings) *Server {
	s := &Server{
		cfg:      cfg,
		defaults: defaults,
		router:   chi.NewRouter(),
		limiter:  newAnalysisLimiter(cfg.MaxConcurrent, cfg.MaxWait),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(appmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.RequestTimeout))

	// Security hardening
	s.router.Use(securityHeaders)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Pages
	s.router.Get("/", s.handleIndex)
	s.router.With(s.limiter.Middleware(s.respondError)).Post("/report", s.handleReport)

	// Operational
	s.router.Get("/healthz", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// API routes
	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.respondError))
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/valid.csv", s.handleValidCSV)
		r.Post("/analyze/invalid.csv", s.handleInvalidCSV)
	})
}

// ListenAndServe serves until Shutdown is called. It returns nil after a
// graceful shutdown.
func (s *Server) ListenAndServe() error {
	slog.Info("starting server", "addr", s.cfg.Addr())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Pages use one inline stylesheet and no scripts
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'none'")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// writeJSON encodes v as JSON and writes it to w.
// Logs encoding errors since headers are already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
