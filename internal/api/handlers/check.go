package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/adalens/adalens/internal/aggregator"
	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/db"
	"github.com/adalens/adalens/internal/models"
)

// checkRequest is the JSON body for POST /api/check.
type checkRequest struct {
	Address   string   `json:"address"`
	TimeoutMs int      `json:"timeoutMs,omitempty"`
	Include   []string `json:"include,omitempty"`
	Exclude   []string `json:"exclude,omitempty"`
}

// Check handles POST /api/check: runs one streaming reward check and
// responds with the final priority-ordered result set. Per-provider results
// also flow to SSE subscribers while the check is in flight.
func Check(controller *aggregator.Controller, database *db.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Warn("invalid check request body",
				"error", err,
				"remoteAddr", r.RemoteAddr,
			)
			writeError(w, http.StatusBadRequest, config.ErrorInvalidRequest, "invalid request body")
			return
		}

		slog.Info("reward check requested",
			"address", req.Address,
			"timeoutMs", req.TimeoutMs,
			"include", req.Include,
			"exclude", req.Exclude,
			"remoteAddr", r.RemoteAddr,
		)

		timeout := time.Duration(req.TimeoutMs) * time.Millisecond

		results, err := controller.Check(r.Context(), req.Address, aggregator.CheckOptions{
			Timeout: timeout,
			Include: req.Include,
			Exclude: req.Exclude,
		})
		if err != nil {
			if errors.Is(err, config.ErrInvalidAddress) {
				writeError(w, http.StatusBadRequest, config.ErrorInvalidAddress, err.Error())
				return
			}
			slog.Error("reward check failed", "error", err)
			writeError(w, http.StatusInternalServerError, config.ErrorCheckFailed, err.Error())
			return
		}

		// Remember the address as the next session's default. Best effort.
		if database != nil {
			if err := database.SetSetting(db.KeyLastAddress, req.Address); err != nil {
				slog.Warn("failed to persist last address", "error", err)
			}
		}

		writeJSON(w, http.StatusOK, models.APIResponse{
			Data: results,
			Meta: &models.APIMeta{
				Providers:     len(results),
				ExecutionTime: time.Since(start).Milliseconds(),
			},
		})
	}
}
