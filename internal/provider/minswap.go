package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/validate"
)

// minswapQuery is the GraphQL document for unclaimed farming rewards.
const minswapQuery = `query FarmRewards($address: String!) {
  farmRewards(address: $address) {
    asset { ticker decimals policyId }
    amount
  }
}`

// minswapResponse is the GraphQL reply envelope.
type minswapResponse struct {
	Data struct {
		FarmRewards []struct {
			Asset struct {
				Ticker   string `json:"ticker"`
				Decimals *int   `json:"decimals"`
				PolicyID string `json:"policyId"`
			} `json:"asset"`
			Amount string `json:"amount"` // minor units
		} `json:"farmRewards"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Minswap fetches unclaimed yield-farming rewards through the Minswap
// GraphQL API. GraphQL over POST; payment addresses only.
type Minswap struct {
	client  *Client
	baseURL string
}

// NewMinswap creates the Minswap adapter.
func NewMinswap(client *Client, baseURL string) *Minswap {
	return &Minswap{client: client, baseURL: baseURL}
}

func (p *Minswap) Descriptor() models.Descriptor {
	return models.Descriptor{
		ID:          "minswap",
		Name:        "Minswap",
		Icon:        "https://minswap.org/images/logo.svg",
		PlatformURL: "https://app.minswap.org/farm",
	}
}

func (p *Minswap) StakeCapable() bool { return false }

// BuildRequest returns the GraphQL request body for the first address.
func (p *Minswap) BuildRequest(addresses []string) (string, error) {
	if len(addresses) == 0 {
		return "", config.ErrNoAddresses
	}
	body, err := json.Marshal(map[string]interface{}{
		"query":     minswapQuery,
		"variables": map[string]string{"address": addresses[0]},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	return string(body), nil
}

// CheckRewards queries unclaimed farm rewards for the first address.
func (p *Minswap) CheckRewards(ctx context.Context, addresses []string) (*models.ResultData, error) {
	data, err := p.check(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Descriptor().Name, err)
	}
	return data, nil
}

func (p *Minswap) check(ctx context.Context, addresses []string) (*models.ResultData, error) {
	body, err := p.BuildRequest(addresses)
	if err != nil {
		return nil, err
	}
	if err := validate.Address(addresses[0], p.StakeCapable()); err != nil {
		return nil, err
	}

	raw, err := p.client.PostJSON(ctx, p.baseURL, []byte(body))
	if err != nil {
		return nil, err
	}
	return p.FormatResponse(raw)
}

// FormatResponse reshapes the GraphQL reply into normalized reward data.
// A non-empty errors list surfaces as an application error carrying the
// first reported message.
func (p *Minswap) FormatResponse(raw []byte) (*models.ResultData, error) {
	var resp minswapResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", config.ErrApplicationError, resp.Errors[0].Message)
	}

	set := NewTokenSet()
	for _, reward := range resp.Data.FarmRewards {
		decimals := config.DefaultTokenDecimals
		if reward.Asset.Decimals != nil {
			decimals = *reward.Asset.Decimals
		}
		amount, err := ParseUnits(reward.Amount, decimals)
		if err != nil {
			return nil, err
		}
		set.Add(models.TokenAmount{
			Symbol:   reward.Asset.Ticker,
			Amount:   amount,
			PolicyID: reward.Asset.PolicyID,
		})
	}

	return &models.ResultData{
		ProviderName: p.Descriptor().Name,
		Tokens:       set.Tokens(),
		Metadata: &models.ResultMetadata{
			ClaimURL:       p.Descriptor().PlatformURL,
			TotalPositions: len(set.Tokens()),
		},
	}, nil
}
