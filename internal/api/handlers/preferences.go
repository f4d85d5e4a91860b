package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/db"
	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/validate"
)

// GetPreferences handles GET /api/preferences.
func GetPreferences(database *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prefs, err := database.GetPreferences()
		if err != nil {
			slog.Error("failed to load preferences", "error", err)
			writeError(w, http.StatusInternalServerError, config.ErrorInternal, "failed to load preferences")
			return
		}
		writeJSON(w, http.StatusOK, models.APIResponse{Data: prefs})
	}
}

// SetPreferences handles PUT /api/preferences.
func SetPreferences(database *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var prefs models.Preferences
		if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
			slog.Warn("invalid preferences body", "error", err)
			writeError(w, http.StatusBadRequest, config.ErrorInvalidRequest, "invalid request body")
			return
		}

		if prefs.LastAddress != "" && !validate.IsRewardAddress(prefs.LastAddress) {
			writeError(w, http.StatusBadRequest, config.ErrorInvalidAddress, "last address is not a recognized payment or stake address")
			return
		}
		if prefs.CheckTimeoutMs != 0 && prefs.CheckTimeoutMs < config.MinCheckTimeoutMs {
			writeError(w, http.StatusBadRequest, config.ErrorInvalidRequest, "check timeout too small")
			return
		}

		if err := database.SetPreferences(prefs); err != nil {
			slog.Error("failed to save preferences", "error", err)
			writeError(w, http.StatusInternalServerError, config.ErrorInternal, "failed to save preferences")
			return
		}

		writeJSON(w, http.StatusOK, models.APIResponse{Data: prefs})
	}
}
