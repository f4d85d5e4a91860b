package aggregator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/provider"
	"github.com/adalens/adalens/internal/validate"
)

// Controller drives one reward check per user action: it validates the
// address, streams the registry's results, re-sorts the accumulated set on
// every arrival, and broadcasts each step to SSE subscribers.
type Controller struct {
	registry *provider.Registry
	hub      *SSEHub
}

// NewController creates a controller over the given registry and hub.
// hub may be nil when no event delivery is wanted (CLI use).
func NewController(registry *provider.Registry, hub *SSEHub) *Controller {
	return &Controller{registry: registry, hub: hub}
}

// CheckOptions narrows one controller check.
type CheckOptions struct {
	Timeout time.Duration
	Include []string
	Exclude []string
}

// Check runs one streaming reward check for address and returns the final
// priority-ordered set. A malformed address fails before any provider is
// dispatched.
func (c *Controller) Check(ctx context.Context, address string, opts CheckOptions) ([]models.ProviderResult, error) {
	if !validate.IsRewardAddress(address) {
		c.broadcast(Event{
			Type: "check_error",
			Data: CheckErrorData{
				Address: address,
				Error:   config.ErrorInvalidAddress,
				Message: "address is not a recognized payment or stake address",
			},
		})
		return nil, fmt.Errorf("%w: %q", config.ErrInvalidAddress, address)
	}

	// Advisory only: the dispatch decision stays with the shape check.
	if err := validate.Bech32Check(address); err != nil {
		slog.Warn("address passed shape check but failed bech32 decode",
			"address", address,
			"error", err,
		)
	}

	total := len(c.registry.Filtered(opts.Include, opts.Exclude))

	slog.Info("reward check starting",
		"address", address,
		"providers", total,
	)

	c.broadcast(Event{
		Type: "check_started",
		Data: CheckStartedData{Address: address, Providers: total},
	})

	start := time.Now()
	accumulated := make([]models.ProviderResult, 0, total)

	c.registry.CheckAll(ctx, []string{address}, provider.CheckOptions{
		Timeout: opts.Timeout,
		Include: opts.Include,
		Exclude: opts.Exclude,
		OnResult: func(res models.ProviderResult) {
			// Deliveries are serialized by the registry, so plain append
			// is safe here.
			accumulated = append(accumulated, res)
			ordered := SortByPriority(accumulated)

			c.broadcast(Event{
				Type: "check_result",
				Data: CheckResultData{
					Result:  res,
					Ordered: ordered,
					Settled: len(accumulated),
					Total:   total,
				},
			})
		},
	})

	ordered := SortByPriority(accumulated)

	failed := 0
	for _, res := range ordered {
		if !res.Success {
			failed++
		}
	}

	slog.Info("reward check complete",
		"address", address,
		"providers", total,
		"failed", failed,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	c.broadcast(Event{
		Type: "check_complete",
		Data: CheckCompleteData{
			Address: address,
			Ordered: ordered,
			Failed:  failed,
		},
	})

	return ordered, nil
}

func (c *Controller) broadcast(event Event) {
	if c.hub != nil {
		c.hub.Broadcast(event)
	}
}

// SortByPriority orders results for rendering: first successes holding at
// least one strictly positive token, then successes with none, then
// failures. Each partition keeps the relative order in which results were
// accumulated, so the visible list may reorder as results stream in.
func SortByPriority(results []models.ProviderResult) []models.ProviderResult {
	ordered := make([]models.ProviderResult, 0, len(results))
	for _, rank := range []int{0, 1, 2} {
		for _, res := range results {
			if priorityRank(res) == rank {
				ordered = append(ordered, res)
			}
		}
	}
	return ordered
}

func priorityRank(res models.ProviderResult) int {
	switch {
	case res.HasPositiveToken():
		return 0
	case res.Success:
		return 1
	default:
		return 2
	}
}
