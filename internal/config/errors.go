package config

import "errors"

// Sentinel errors for internal use.
var (
	ErrInvalidConfig = errors.New("invalid configuration")

	// Validation
	ErrInvalidAddress = errors.New("invalid wallet address")

	// Provider transport
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrProviderRateLimit   = errors.New("provider rate limit exceeded")
	ErrProviderTimeout     = errors.New("provider request timeout")
	ErrApplicationError    = errors.New("provider reported an error")

	// Circuit Breaker
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// Registry
	ErrNoProviders      = errors.New("no providers selected")
	ErrUnknownProvider  = errors.New("unknown provider id")
	ErrNoAddresses      = errors.New("no addresses supplied")
	ErrStakeResolveFail = errors.New("stake account resolution failed")
)
