package router

import (
	"starclicker-rest-api/internal/handler"
	"starclicker-rest-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler            *handler.Handler
	PlayerHandler      *handler.PlayerHandler
	FanHandler         *handler.FanHandler
	ProductHandler     *handler.ProductHandler
	LeaderboardHandler *handler.LeaderboardHandler
	AdminHandler       *handler.AdminHandler
}

// New creates and configures the HTTP router.
//
// Authentication is deliberately absent: the API trusts the caller to have
// resolved a numeric player identity upstream.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Unified status endpoint for uptime monitoring
	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check endpoints
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}

		// Player endpoints
		if cfg.PlayerHandler != nil {
			r.Route("/players", func(r chi.Router) {
				r.Post("/", cfg.PlayerHandler.Register)
				r.Get("/{player_id}", cfg.PlayerHandler.GetPlayer)
				r.Patch("/{player_id}", cfg.PlayerHandler.SyncState)
			})
		}

		// Fan endpoints
		if cfg.FanHandler != nil {
			r.Route("/fans", func(r chi.Router) {
				r.Get("/available", cfg.FanHandler.ListAvailable)
				r.Post("/{fan_id}/acquire", cfg.FanHandler.Acquire)
			})
		}

		// Product endpoints
		if cfg.ProductHandler != nil {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", cfg.ProductHandler.List)
				r.Post("/{product_id}/purchase", cfg.ProductHandler.Purchase)
			})
		}

		// Leaderboard
		if cfg.LeaderboardHandler != nil {
			r.Get("/leaderboard", cfg.LeaderboardHandler.Get)
		}

		// Admin endpoints
		if cfg.AdminHandler != nil {
			r.Get("/admin/stats", cfg.AdminHandler.GetStats)
		}
	})

	return r
}
