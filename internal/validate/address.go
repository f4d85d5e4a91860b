package validate

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/adalens/adalens/internal/config"
)

// IsPaymentAddress reports whether s has the shape of a Cardano payment
// address: non-empty, prefix "addr1", length >= 100. This is a structural
// check only — no checksum or bech32 decoding — so callers must not rely on
// it for cryptographic correctness.
func IsPaymentAddress(s string) bool {
	return strings.HasPrefix(s, config.PaymentAddressPrefix) &&
		len(s) >= config.PaymentAddressMinLen
}

// IsStakeAddress reports whether s has the shape of a Cardano stake (reward)
// account address: prefix "stake1", length >= 50. Structural check only.
func IsStakeAddress(s string) bool {
	return strings.HasPrefix(s, config.StakeAddressPrefix) &&
		len(s) >= config.StakeAddressMinLen
}

// IsRewardAddress is the relaxed predicate used by stake-capable providers:
// it accepts the payment shape or the stake shape.
func IsRewardAddress(s string) bool {
	return IsPaymentAddress(s) || IsStakeAddress(s)
}

// Address validates addr for dispatch and returns a descriptive error on
// failure. stakeCapable selects the relaxed predicate.
func Address(addr string, stakeCapable bool) error {
	if addr == "" {
		return fmt.Errorf("%w: empty address", config.ErrInvalidAddress)
	}
	if stakeCapable {
		if !IsRewardAddress(addr) {
			return fmt.Errorf("%w: expected addr1 (>= %d chars) or stake1 (>= %d chars)",
				config.ErrInvalidAddress, config.PaymentAddressMinLen, config.StakeAddressMinLen)
		}
		return nil
	}
	if !IsPaymentAddress(addr) {
		return fmt.Errorf("%w: expected addr1 prefix with >= %d chars",
			config.ErrInvalidAddress, config.PaymentAddressMinLen)
	}
	return nil
}

// Bech32Check performs a full bech32 decode of addr. It is advisory only:
// the dispatch path uses the shallow shape predicates above, and a failure
// here is surfaced as a warning, not a rejection.
func Bech32Check(addr string) error {
	hrp, _, err := bech32.DecodeNoLimit(addr)
	if err != nil {
		return fmt.Errorf("bech32 decode failed: %w", err)
	}
	if hrp != "addr" && hrp != "stake" {
		return fmt.Errorf("unexpected bech32 prefix %q", hrp)
	}
	return nil
}
