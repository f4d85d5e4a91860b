package handlers

import (
	"log/slog"
	"net/http"

	"github.com/adalens/adalens/internal/provider"
)

// HealthHandler returns a handler for the GET /api/health endpoint.
func HealthHandler(registry *provider.Registry, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("health check requested", "remoteAddr", r.RemoteAddr)

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"version":   version,
			"providers": len(registry.All()),
		})
	}
}
