// Package api wires the dashboard's HTTP surface: middleware, routes and
// the swagger UI.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/shotmap/internal/api/handler"
	"github.com/albapepper/shotmap/internal/cache"
	"github.com/albapepper/shotmap/internal/config"
	"github.com/albapepper/shotmap/internal/dashboard"
)

// NewRouter creates and configures the Chi router with all middleware and
// routes. db may be nil when the database mirror is not configured.
func NewRouter(session *dashboard.Session, appCache *cache.Cache, db handler.Pinger, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5, "text/html", "application/json", "image/svg+xml"))

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(session, appCache, db, cfg.Club, logger)

	// --- Routes ---

	// Dashboard
	r.Get("/", h.Dashboard)
	r.Post("/refresh", h.Refresh)
	r.Get("/pitch.svg", h.Pitch)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/teams", h.GetTeams)
		r.Get("/players", h.GetPlayers)
		r.Get("/shots", h.GetShots)
		r.Get("/summary", h.GetSummary)
	})

	return r
}
