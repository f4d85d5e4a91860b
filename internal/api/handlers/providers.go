package handlers

import (
	"net/http"

	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/provider"
)

// ListProviders handles GET /api/providers, returning every descriptor in
// registration order.
func ListProviders(registry *provider.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		descriptors := registry.All()
		writeJSON(w, http.StatusOK, models.APIResponse{
			Data: descriptors,
			Meta: &models.APIMeta{Providers: len(descriptors)},
		})
	}
}
