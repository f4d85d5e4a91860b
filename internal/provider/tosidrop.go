package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/validate"
)

// tosiDropResponse is the JSON reply of the TosiDrop rewards endpoint.
type tosiDropResponse struct {
	ClaimableTokens []struct {
		Ticker    string  `json:"ticker"`
		Name      string  `json:"name"`
		Decimals  *int    `json:"decimals"`
		Amount    float64 `json:"amount"` // minor units
		PolicyID  string  `json:"policy_id"`
		AssetName string  `json:"assetname"`
	} `json:"claimable_tokens"`
	Error string `json:"error"`
}

// TosiDrop fetches unclaimed ISPO/airdrop rewards from the TosiDrop API.
// REST over GET with the address as a query parameter; accepts stake
// addresses directly.
type TosiDrop struct {
	client  *Client
	baseURL string
}

// NewTosiDrop creates the TosiDrop adapter.
func NewTosiDrop(client *Client, baseURL string) *TosiDrop {
	return &TosiDrop{client: client, baseURL: baseURL}
}

func (p *TosiDrop) Descriptor() models.Descriptor {
	return models.Descriptor{
		ID:          "tosidrop",
		Name:        "TosiDrop",
		Icon:        "https://tosidrop.io/assets/logo.png",
		PlatformURL: "https://app.tosidrop.io",
	}
}

func (p *TosiDrop) StakeCapable() bool { return true }

// BuildRequest returns the query string for the rewards endpoint.
func (p *TosiDrop) BuildRequest(addresses []string) (string, error) {
	if len(addresses) == 0 {
		return "", config.ErrNoAddresses
	}
	return "address=" + url.QueryEscape(addresses[0]), nil
}

// CheckRewards queries claimable tokens for the first address.
func (p *TosiDrop) CheckRewards(ctx context.Context, addresses []string) (*models.ResultData, error) {
	data, err := p.check(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Descriptor().Name, err)
	}
	return data, nil
}

func (p *TosiDrop) check(ctx context.Context, addresses []string) (*models.ResultData, error) {
	query, err := p.BuildRequest(addresses)
	if err != nil {
		return nil, err
	}
	if err := validate.Address(addresses[0], p.StakeCapable()); err != nil {
		return nil, err
	}

	raw, err := p.client.GetJSON(ctx, fmt.Sprintf("%s/rewards?%s", p.baseURL, query))
	if err != nil {
		return nil, err
	}
	return p.FormatResponse(raw)
}

// FormatResponse reshapes the TosiDrop reply into normalized reward data.
func (p *TosiDrop) FormatResponse(raw []byte) (*models.ResultData, error) {
	var resp tosiDropResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrApplicationError, resp.Error)
	}

	set := NewTokenSet()
	for _, ct := range resp.ClaimableTokens {
		decimals := config.DefaultTokenDecimals
		if ct.Decimals != nil {
			decimals = *ct.Decimals
		}
		set.Add(models.TokenAmount{
			Symbol:   ct.Ticker,
			Name:     ct.Name,
			Amount:   AmountFromUnits(ct.Amount, decimals),
			PolicyID: ct.PolicyID,
			AssetID:  ct.AssetName,
		})
	}

	return &models.ResultData{
		ProviderName: p.Descriptor().Name,
		Tokens:       set.Tokens(),
		Metadata:     &models.ResultMetadata{ClaimURL: p.Descriptor().PlatformURL},
	}, nil
}
