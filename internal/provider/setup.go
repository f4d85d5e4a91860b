package provider

import (
	"log/slog"

	"github.com/adalens/adalens/internal/config"
)

// Setup creates a fully wired registry with every supported reward service.
// Registration order here is the order descriptors are reported in.
func Setup(cfg *config.Config) *Registry {
	slog.Info("setting up provider registry",
		"relayBase", cfg.RelayBase,
	)

	httpClient := NewHTTPClient()

	tosidrop := NewTosiDrop(
		NewClient("TosiDrop", httpClient, config.RateLimitTosiDrop, ""),
		cfg.TosiDropURL,
	)

	// SundaeSwap's origin rejects direct browser calls, so its transport
	// goes through the CORS relay.
	sundae := NewSundae(
		NewClient("SundaeSwap", httpClient, config.RateLimitSundae, cfg.RelayBase),
		cfg.SundaeURL,
	)

	dripdropz := NewDripDropz(
		NewClient("DripDropz", httpClient, config.RateLimitDripDropz, ""),
		cfg.DripDropzURL,
		cfg.KoiosURL,
	)

	minswap := NewMinswap(
		NewClient("Minswap", httpClient, config.RateLimitMinswap, ""),
		cfg.MinswapURL,
	)

	return NewRegistry(tosidrop, sundae, dripdropz, minswap)
}
