package config

import "time"

// Address shape rules (structural only, no bech32 verification).
const (
	PaymentAddressPrefix = "addr1"
	PaymentAddressMinLen = 100
	StakeAddressPrefix   = "stake1"
	StakeAddressMinLen   = 50
)

// Normalization
const (
	// DefaultTokenDecimals is the prevailing decimal precision for Cardano
	// fungible tokens when the provider does not declare one.
	DefaultTokenDecimals = 6

	// DustThreshold is the minimum normalized amount; anything below is
	// suppressed from token lists.
	DustThreshold = 1e-6
)

// Checking
const (
	DefaultCheckTimeout = 10 * time.Second
	MinCheckTimeoutMs   = 100
)

// Rate Limiting (requests per second)
const (
	RateLimitTosiDrop  = 5
	RateLimitSundae    = 5
	RateLimitDripDropz = 5
	RateLimitMinswap   = 5
)

// Circuit Breaker
const (
	CircuitBreakerThreshold   = 5
	CircuitBreakerCooldown    = 60 * time.Second
	CircuitBreakerHalfOpenMax = 1
)

// Circuit breaker states.
const (
	CircuitClosed   = "closed"
	CircuitOpen     = "open"
	CircuitHalfOpen = "half-open"
)

// Server
const (
	ServerReadTimeout    = 30 * time.Second
	ServerWriteTimeout   = 60 * time.Second
	ServerIdleTimeout    = 120 * time.Second
	ShutdownTimeout      = 10 * time.Second
	SSEKeepAliveInterval = 15 * time.Second
	SSEHubChannelBuffer  = 32
)

// HTTP client connection pool
const (
	HTTPMaxConnsPerHost     = 10
	HTTPMaxIdleConnsPerHost = 5
	HTTPMaxIdleConns        = 20
	HTTPClientTimeout       = 30 * time.Second
)

// Logging
const (
	LogMaxAgeDays = 30
)

// API error codes returned to clients.
const (
	ErrorInvalidAddress = "INVALID_ADDRESS"
	ErrorInvalidRequest = "INVALID_REQUEST"
	ErrorCheckFailed    = "CHECK_FAILED"
	ErrorNotFound       = "NOT_FOUND"
	ErrorInternal       = "INTERNAL"
)
