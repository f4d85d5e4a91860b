package provider

import (
	"context"
	"net/http"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
)

// Adapter encapsulates one external reward service: request construction,
// transport, and response normalization. Implementations are stateless
// across calls; all per-call state lives on the stack.
type Adapter interface {
	// Descriptor returns the static identity of the service.
	Descriptor() models.Descriptor

	// StakeCapable reports whether the service accepts stake (reward
	// account) addresses in addition to payment addresses.
	StakeCapable() bool

	// BuildRequest produces the provider-specific request body or query
	// string for the given addresses. Pure; assumes at least one address.
	// Most services only use the first address.
	BuildRequest(addresses []string) (string, error)

	// CheckRewards performs the network calls and returns the normalized
	// reward data. Outcomes are binary: full data or an error whose message
	// is prefixed with the provider's display name. Never partial success.
	CheckRewards(ctx context.Context, addresses []string) (*models.ResultData, error)

	// FormatResponse reshapes the raw JSON reply into normalized reward
	// data. Pure and synchronous; duplicate symbols are summed and dust
	// amounts dropped.
	FormatResponse(raw []byte) (*models.ResultData, error)
}

// NewHTTPClient creates the shared HTTP client for adapter transports,
// using the application's connection pool constants.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		MaxConnsPerHost:     config.HTTPMaxConnsPerHost,
		MaxIdleConnsPerHost: config.HTTPMaxIdleConnsPerHost,
		MaxIdleConns:        config.HTTPMaxIdleConns,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   config.HTTPClientTimeout,
	}
}
