package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/validate"
)

// sundaeResponse is the JSON reply of the SundaeSwap rewards endpoint.
type sundaeResponse struct {
	Rewards []struct {
		AssetID  string `json:"assetId"`
		Ticker   string `json:"ticker"`
		Decimals *int   `json:"decimals"`
		Quantity string `json:"quantity"` // minor units
	} `json:"rewards"`
	Positions int    `json:"positions"`
	Message   string `json:"message"` // set on application-level errors
}

// Sundae fetches unclaimed liquidity-farming rewards from the SundaeSwap
// stats API. REST over GET; the origin blocks direct browser calls, so the
// transport routes through the CORS relay.
type Sundae struct {
	client  *Client
	baseURL string
}

// NewSundae creates the SundaeSwap adapter. The client is expected to carry
// the relay prefix.
func NewSundae(client *Client, baseURL string) *Sundae {
	return &Sundae{client: client, baseURL: baseURL}
}

func (p *Sundae) Descriptor() models.Descriptor {
	return models.Descriptor{
		ID:          "sundae",
		Name:        "SundaeSwap",
		Icon:        "https://sundaeswap.finance/images/logo.png",
		PlatformURL: "https://app.sundaeswap.finance/rewards",
	}
}

func (p *Sundae) StakeCapable() bool { return true }

// BuildRequest returns the path suffix addressing the wallet.
func (p *Sundae) BuildRequest(addresses []string) (string, error) {
	if len(addresses) == 0 {
		return "", config.ErrNoAddresses
	}
	return "/rewards/" + addresses[0], nil
}

// CheckRewards queries unclaimed farming rewards for the first address.
func (p *Sundae) CheckRewards(ctx context.Context, addresses []string) (*models.ResultData, error) {
	data, err := p.check(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Descriptor().Name, err)
	}
	return data, nil
}

func (p *Sundae) check(ctx context.Context, addresses []string) (*models.ResultData, error) {
	suffix, err := p.BuildRequest(addresses)
	if err != nil {
		return nil, err
	}
	if err := validate.Address(addresses[0], p.StakeCapable()); err != nil {
		return nil, err
	}

	raw, err := p.client.GetJSON(ctx, p.baseURL+suffix)
	if err != nil {
		return nil, err
	}
	return p.FormatResponse(raw)
}

// FormatResponse reshapes the SundaeSwap reply into normalized reward data.
func (p *Sundae) FormatResponse(raw []byte) (*models.ResultData, error) {
	var resp sundaeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Message != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrApplicationError, resp.Message)
	}

	set := NewTokenSet()
	for _, reward := range resp.Rewards {
		decimals := config.DefaultTokenDecimals
		if reward.Decimals != nil {
			decimals = *reward.Decimals
		}
		amount, err := ParseUnits(reward.Quantity, decimals)
		if err != nil {
			return nil, err
		}
		set.Add(models.TokenAmount{
			Symbol:  reward.Ticker,
			Amount:  amount,
			AssetID: reward.AssetID,
		})
	}

	return &models.ResultData{
		ProviderName: p.Descriptor().Name,
		Tokens:       set.Tokens(),
		Metadata: &models.ResultMetadata{
			ClaimURL:       p.Descriptor().PlatformURL,
			TotalPositions: resp.Positions,
		},
	}, nil
}
