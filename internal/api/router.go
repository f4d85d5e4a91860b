package api

import (
	"io/fs"
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/adalens/adalens/internal/aggregator"
	"github.com/adalens/adalens/internal/api/handlers"
	"github.com/adalens/adalens/internal/api/middleware"
	"github.com/adalens/adalens/internal/db"
	"github.com/adalens/adalens/internal/provider"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(registry *provider.Registry, controller *aggregator.Controller, hub *aggregator.SSEHub, database *db.DB, staticFS fs.FS) chi.Router {
	r := chi.NewRouter()

	// Middleware stack (order matters)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS)

	slog.Info("router initialized",
		"middleware", []string{"requestLogging", "securityHeaders", "cors"},
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.HealthHandler(registry, Version))
		r.Get("/providers", handlers.ListProviders(registry))
		r.Post("/check", handlers.Check(controller, database))
		r.Get("/events", handlers.Events(hub))
		r.Get("/preferences", handlers.GetPreferences(database))
		r.Put("/preferences", handlers.SetPreferences(database))
	})

	if staticFS != nil {
		r.NotFound(handlers.SPAHandler(staticFS))
	}

	return r
}
