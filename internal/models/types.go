package models

// TokenAmount is a normalized reward line item. Amount is always human-scale
// (already divided by the asset's decimal precision), never a raw minor-unit
// integer.
type TokenAmount struct {
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name,omitempty"`
	Amount   float64        `json:"amount"`
	PolicyID string         `json:"policyId,omitempty"`
	AssetID  string         `json:"assetId,omitempty"`
	Metadata *TokenMetadata `json:"metadata,omitempty"`
}

// TokenMetadata carries optional per-asset context used for display.
type TokenMetadata struct {
	PriceUSD float64 `json:"priceUsd,omitempty"`
	Verified bool    `json:"verified,omitempty"`
}

// ResultMetadata holds provider-specific counters and the claim location.
type ResultMetadata struct {
	ClaimURL       string `json:"claimUrl,omitempty"`
	StakeCount     int    `json:"stakeCount,omitempty"`
	TotalPositions int    `json:"totalPositions,omitempty"`
}

// ResultData is the payload of a successful provider check.
type ResultData struct {
	ProviderName string          `json:"providerName"`
	Tokens       []TokenAmount   `json:"tokens"`
	Metadata     *ResultMetadata `json:"metadata,omitempty"`
}

// ProviderResult is the terminal outcome of querying one provider for one
// address. Exactly one of Data/Error is meaningful depending on Success.
type ProviderResult struct {
	ProviderID string      `json:"providerId"`
	Success    bool        `json:"success"`
	Data       *ResultData `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// HasPositiveToken reports whether the result succeeded with at least one
// token of strictly positive amount. Used by the priority sort.
func (r ProviderResult) HasPositiveToken() bool {
	if !r.Success || r.Data == nil {
		return false
	}
	for _, t := range r.Data.Tokens {
		if t.Amount > 0 {
			return true
		}
	}
	return false
}

// Descriptor is the static identity of one external reward service.
type Descriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	PlatformURL string `json:"platformUrl,omitempty"`
}

// Preferences is the persisted convenience state between sessions.
type Preferences struct {
	LastAddress    string `json:"lastAddress"`
	CheckTimeoutMs int    `json:"checkTimeoutMs"`
}

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Data interface{} `json:"data,omitempty"`
	Meta *APIMeta    `json:"meta,omitempty"`
}

// APIMeta contains execution metadata.
type APIMeta struct {
	Providers     int   `json:"providers,omitempty"`
	ExecutionTime int64 `json:"executionTime,omitempty"`
}

// APIError is the standard error response.
type APIError struct {
	Error APIErrorDetail `json:"error"`
}

// APIErrorDetail contains error code and message.
type APIErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
