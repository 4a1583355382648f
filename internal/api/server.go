// Package api assembles the HTTP router: middleware, swagger UI and the
// versioned routes.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/ecopilot/ecopilot-backend/internal/api/handler"
	"github.com/ecopilot/ecopilot-backend/internal/app"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(a *app.App) *chi.Mux {
	cfg := a.Config
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(a.Logger))
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

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

	h := handler.New(a)

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/store", h.HealthCheckStore)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		// Daily content
		r.Post("/challenges/generate", h.GenerateChallenges)
		r.Get("/challenges/{date}", h.GetChallenges)
		r.Get("/tips/pool", h.GetTipPool)
		r.Post("/tips/generate", h.GenerateTips)
		r.Get("/tips/{date}", h.GetTip)

		// Document-change events
		r.Post("/events/user-updated", h.UserUpdated)
		r.Post("/events/product-scanned", h.ProductScanned)
		r.Post("/events/user-challenge-updated", h.UserChallengeUpdated)

		// Manual triggers
		r.Post("/streaks/check", h.CheckStreak)
		r.Post("/replay/milestone", h.ReplayMilestone)
		r.Post("/notifications/broadcast", h.Broadcast)
	})

	return r
}
