package provider

import (
	"log/slog"
	"sync"
	"time"

	"github.com/adalens/adalens/internal/config"
)

// CircuitBreaker suppresses calls to a reward service that keeps failing,
// so one dead upstream does not slow every check.
//
// State machine:
//   - Closed: calls pass; consecutive failures >= threshold trips to Open.
//   - Open: calls blocked until the cooldown elapses, then Half-Open.
//   - Half-Open: a limited number of probe calls pass; success closes the
//     circuit, failure re-opens it.
type CircuitBreaker struct {
	mu        sync.Mutex
	name      string
	state     string
	fails     int
	threshold int
	cooldown  time.Duration
	lastFail  time.Time
	probes    int
	probeMax  int
}

// NewCircuitBreaker creates a circuit breaker for the named provider.
func NewCircuitBreaker(name string, threshold int, cooldown time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		name:      name,
		state:     config.CircuitClosed,
		threshold: threshold,
		cooldown:  cooldown,
		probeMax:  config.CircuitBreakerHalfOpenMax,
	}
}

// Allow reports whether a call should be attempted.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case config.CircuitClosed:
		return true

	case config.CircuitOpen:
		if time.Since(cb.lastFail) >= cb.cooldown {
			slog.Debug("circuit breaker half-open",
				"provider", cb.name,
				"consecutiveFails", cb.fails,
			)
			cb.state = config.CircuitHalfOpen
			cb.probes = 1
			return true
		}
		return false

	case config.CircuitHalfOpen:
		if cb.probes < cb.probeMax {
			cb.probes++
			return true
		}
		return false

	default:
		return false
	}
}

// RecordSuccess resets the breaker to the closed state.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	previous := cb.state
	cb.fails = 0
	cb.probes = 0
	cb.state = config.CircuitClosed

	if previous != config.CircuitClosed {
		slog.Info("circuit breaker closed after success",
			"provider", cb.name,
			"previousState", previous,
		)
	}
}

// RecordFailure counts a failed call and may trip the breaker open.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.fails++
	cb.lastFail = time.Now()

	if cb.state == config.CircuitHalfOpen {
		slog.Warn("circuit breaker reopened from half-open",
			"provider", cb.name,
			"consecutiveFails", cb.fails,
		)
		cb.state = config.CircuitOpen
		cb.probes = 0
		return
	}

	if cb.fails >= cb.threshold {
		slog.Warn("circuit breaker tripped open",
			"provider", cb.name,
			"consecutiveFails", cb.fails,
			"threshold", cb.threshold,
		)
		cb.state = config.CircuitOpen
		cb.probes = 0
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
