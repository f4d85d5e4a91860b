package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/adalens/adalens/internal/aggregator"
	"github.com/adalens/adalens/internal/config"
)

// Events handles GET /api/events: an SSE feed of reward-check progress.
// Each provider result is pushed as a check_result event the moment the
// provider settles.
func Events(hub *aggregator.SSEHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			slog.Error("SSE not supported by response writer")
			writeError(w, http.StatusInternalServerError, config.ErrorInternal, "streaming unsupported")
			return
		}

		slog.Info("SSE client connecting",
			"remoteAddr", r.RemoteAddr,
		)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		ch := hub.Subscribe()
		defer func() {
			hub.Unsubscribe(ch)
			slog.Info("SSE client disconnected",
				"remoteAddr", r.RemoteAddr,
			)
		}()

		keepAlive := time.NewTicker(config.SSEKeepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case <-keepAlive.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				flusher.Flush()

			case event, open := <-ch:
				if !open {
					return
				}
				data, err := json.Marshal(event.Data)
				if err != nil {
					slog.Error("failed to marshal SSE event",
						"type", event.Type,
						"error", err,
					)
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
				flusher.Flush()
			}
		}
	}
}
