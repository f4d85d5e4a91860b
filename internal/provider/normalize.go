package provider

import (
	"fmt"
	"math"
	"strconv"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
)

// AmountFromUnits converts a raw minor-unit quantity to a human-scale
// decimal using the asset's declared precision. Negative or unspecified
// decimals fall back to the chain default of 6.
func AmountFromUnits(units float64, decimals int) float64 {
	if decimals < 0 {
		decimals = config.DefaultTokenDecimals
	}
	return units / math.Pow10(decimals)
}

// ParseUnits converts a minor-unit quantity encoded as a decimal string.
func ParseUnits(quantity string, decimals int) (float64, error) {
	units, err := strconv.ParseFloat(quantity, 64)
	if err != nil {
		return 0, fmt.Errorf("parse quantity %q: %w", quantity, err)
	}
	return AmountFromUnits(units, decimals), nil
}

// TokenSet accumulates normalized reward line items, merging repeated
// symbols by summing their amounts and preserving first-seen order.
type TokenSet struct {
	order   []string
	entries map[string]*models.TokenAmount
}

// NewTokenSet creates an empty accumulator.
func NewTokenSet() *TokenSet {
	return &TokenSet{entries: make(map[string]*models.TokenAmount)}
}

// Add merges one line item into the set. Repeated symbols sum their
// amounts; descriptive fields keep the first non-empty value seen.
func (s *TokenSet) Add(t models.TokenAmount) {
	existing, ok := s.entries[t.Symbol]
	if !ok {
		copied := t
		s.entries[t.Symbol] = &copied
		s.order = append(s.order, t.Symbol)
		return
	}

	existing.Amount += t.Amount
	if existing.Name == "" {
		existing.Name = t.Name
	}
	if existing.PolicyID == "" {
		existing.PolicyID = t.PolicyID
	}
	if existing.AssetID == "" {
		existing.AssetID = t.AssetID
	}
	if existing.Metadata == nil {
		existing.Metadata = t.Metadata
	}
}

// Tokens returns the merged line items in first-seen order, excluding
// entries whose summed amount is below the dust threshold.
func (s *TokenSet) Tokens() []models.TokenAmount {
	tokens := make([]models.TokenAmount, 0, len(s.order))
	for _, symbol := range s.order {
		t := s.entries[symbol]
		if t.Amount < config.DustThreshold {
			continue
		}
		tokens = append(tokens, *t)
	}
	return tokens
}
