package aggregator

import (
	"context"
	"log/slog"
	"sync"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
)

// Event represents an SSE event to broadcast to connected clients.
type Event struct {
	Type string      `json:"type"` // "check_started", "check_result", "check_complete", "check_error"
	Data interface{} `json:"data"` // JSON-serializable payload
}

// CheckStartedData is the payload for check_started events.
type CheckStartedData struct {
	Address   string `json:"address"`
	Providers int    `json:"providers"`
}

// CheckResultData is the payload for check_result events. Ordered carries
// the full accumulated set re-sorted by priority, so clients can re-render
// without tracking order themselves.
type CheckResultData struct {
	Result  models.ProviderResult   `json:"result"`
	Ordered []models.ProviderResult `json:"ordered"`
	Settled int                     `json:"settled"`
	Total   int                     `json:"total"`
}

// CheckCompleteData is the payload for check_complete events.
type CheckCompleteData struct {
	Address string                  `json:"address"`
	Ordered []models.ProviderResult `json:"ordered"`
	Failed  int                     `json:"failed"`
}

// CheckErrorData is the payload for check_error events.
type CheckErrorData struct {
	Address string `json:"address"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SSEHub manages fan-out broadcasting of events to connected SSE clients.
type SSEHub struct {
	clients map[chan Event]struct{}
	mu      sync.RWMutex
}

// NewSSEHub creates a new SSE event hub.
func NewSSEHub() *SSEHub {
	slog.Info("SSE hub created")
	return &SSEHub{
		clients: make(map[chan Event]struct{}),
	}
}

// Run starts the hub's background processing. Blocks until ctx is cancelled.
func (h *SSEHub) Run(ctx context.Context) {
	slog.Info("SSE hub running")
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		close(ch)
		delete(h.clients, ch)
	}

	slog.Info("SSE hub stopped", "reason", ctx.Err())
}

// Subscribe registers a new client and returns a channel to receive events.
func (h *SSEHub) Subscribe() chan Event {
	ch := make(chan Event, config.SSEHubChannelBuffer)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	slog.Info("SSE client subscribed", "totalClients", clientCount)

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (h *SSEHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	slog.Info("SSE client unsubscribed", "totalClients", clientCount)
}

// Broadcast sends an event to all connected clients.
// Non-blocking: if a client's channel is full, the event is dropped for that client.
func (h *SSEHub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			slog.Warn("SSE event dropped for slow client",
				"eventType", event.Type,
			)
		}
	}

	slog.Debug("SSE event broadcast",
		"type", event.Type,
		"clients", len(h.clients),
	)
}

// ClientCount returns the number of connected clients.
func (h *SSEHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
