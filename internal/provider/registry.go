package provider

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
)

// TimeoutMessage is the error text of a result synthesized when a provider
// exceeds its per-check budget.
const TimeoutMessage = "Request timeout"

// CheckOptions controls one CheckAll invocation.
type CheckOptions struct {
	// Timeout is the per-provider budget. Zero uses the application default.
	Timeout time.Duration

	// Include restricts the check to exactly these provider ids. Exclude
	// removes ids and is applied after Include.
	Include []string
	Exclude []string

	// OnResult, when set, selects streaming mode: each provider's result is
	// delivered the instant it settles, in completion order. Deliveries are
	// serialized, so the sink needs no locking of its own. Exactly one
	// delivery per dispatched provider.
	OnResult func(models.ProviderResult)
}

// Registry owns the ordered set of reward service adapters and fans checks
// out across them.
type Registry struct {
	mu       sync.RWMutex
	order    []string
	adapters map[string]Adapter
}

// NewRegistry creates a registry seeded with the given adapters in order.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds an adapter. A duplicate id replaces the earlier adapter in
// place, keeping its original registration position.
func (r *Registry) Register(a Adapter) {
	id := a.Descriptor().ID

	r.mu.Lock()
	if _, exists := r.adapters[id]; !exists {
		r.order = append(r.order, id)
	}
	r.adapters[id] = a
	count := len(r.order)
	r.mu.Unlock()

	slog.Info("provider registered",
		"id", id,
		"name", a.Descriptor().Name,
		"total", count,
	)
}

// Remove deletes an adapter by id. Expected to be called only between
// checks, never during one.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[id]; !exists {
		return
	}
	delete(r.adapters, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// All returns every descriptor in registration order.
func (r *Registry) All() []models.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descriptors := make([]models.Descriptor, 0, len(r.order))
	for _, id := range r.order {
		descriptors = append(descriptors, r.adapters[id].Descriptor())
	}
	return descriptors
}

// Filtered returns the adapters selected by include/exclude id lists, in
// registration order. Include (if non-empty) restricts to those ids;
// exclude removes ids and is applied after include.
func (r *Registry) Filtered(include, exclude []string) []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	includeSet := toSet(include)
	excludeSet := toSet(exclude)

	selected := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		if len(includeSet) > 0 {
			if _, ok := includeSet[id]; !ok {
				continue
			}
		}
		if _, ok := excludeSet[id]; ok {
			continue
		}
		selected = append(selected, r.adapters[id])
	}
	return selected
}

// CheckAll fans one check out across the selected adapters, racing each
// against the timeout. In streaming mode (OnResult set) results flow to the
// sink as providers settle and the returned slice is nil; in batch mode the
// call returns every result with successes first, each partition in
// registration order. Either way CheckAll returns only after every
// dispatched provider has reached a terminal state.
func (r *Registry) CheckAll(ctx context.Context, addresses []string, opts CheckOptions) []models.ProviderResult {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = config.DefaultCheckTimeout
	}

	selected := r.Filtered(opts.Include, opts.Exclude)

	slog.Info("reward check dispatched",
		"providers", len(selected),
		"addresses", len(addresses),
		"timeout", timeout,
		"streaming", opts.OnResult != nil,
	)

	var (
		wg      sync.WaitGroup
		sinkMu  sync.Mutex
		results = make([]models.ProviderResult, len(selected))
	)

	for i, a := range selected {
		wg.Add(1)
		go func(i int, a Adapter) {
			defer wg.Done()

			res := r.checkOne(ctx, a, addresses, timeout)
			results[i] = res

			if opts.OnResult != nil {
				sinkMu.Lock()
				opts.OnResult(res)
				sinkMu.Unlock()
			}
		}(i, a)
	}

	wg.Wait()

	if opts.OnResult != nil {
		return nil
	}

	ordered := make([]models.ProviderResult, 0, len(results))
	for _, res := range results {
		if res.Success {
			ordered = append(ordered, res)
		}
	}
	for _, res := range results {
		if !res.Success {
			ordered = append(ordered, res)
		}
	}
	return ordered
}

// checkOne races one adapter's CheckRewards against the timeout. A timed-out
// call is abandoned, not cancelled: its goroutine finishes into a buffered
// channel nobody reads, bounded by the transport's own client timeout.
func (r *Registry) checkOne(ctx context.Context, a Adapter, addresses []string, timeout time.Duration) models.ProviderResult {
	d := a.Descriptor()
	settled := make(chan models.ProviderResult, 1)

	go func() {
		data, err := a.CheckRewards(ctx, addresses)
		if err != nil {
			settled <- models.ProviderResult{ProviderID: d.ID, Success: false, Error: err.Error()}
			return
		}
		settled <- models.ProviderResult{ProviderID: d.ID, Success: true, Data: data}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-settled:
		if res.Success {
			slog.Debug("provider settled",
				"provider", d.ID,
				"tokens", len(res.Data.Tokens),
			)
		} else {
			slog.Warn("provider failed",
				"provider", d.ID,
				"error", res.Error,
			)
		}
		return res

	case <-timer.C:
		slog.Warn("provider timed out",
			"provider", d.ID,
			"timeout", timeout,
		)
		return models.ProviderResult{ProviderID: d.ID, Success: false, Error: TimeoutMessage}
	}
}

func toSet(ids []string) map[string]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
