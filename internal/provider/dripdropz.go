package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/validate"
)

// koiosAddressInfo is one entry of the Koios address_info reply.
type koiosAddressInfo struct {
	StakeAddress string `json:"stake_address"`
}

// dripDropzResponse is the JSON reply of the DripDropz availability check.
type dripDropzResponse struct {
	Available []struct {
		Token struct {
			Ticker   string `json:"ticker"`
			Name     string `json:"name"`
			Decimals *int   `json:"decimals"`
			PolicyID string `json:"policyId"`
		} `json:"token"`
		Quantity string `json:"quantity"` // minor units
	} `json:"available"`
	StakeCount int    `json:"stakeCount"`
	Error      string `json:"error"`
}

// DripDropz fetches available token drips from the DripDropz API. REST over
// POST with a sequential dependency: a payment address is first resolved to
// its delegation (stake) account through Koios, then the drip availability
// is fetched for that account. Stake addresses skip the resolution call.
type DripDropz struct {
	client   *Client
	baseURL  string
	koiosURL string
}

// NewDripDropz creates the DripDropz adapter.
func NewDripDropz(client *Client, baseURL, koiosURL string) *DripDropz {
	return &DripDropz{client: client, baseURL: baseURL, koiosURL: koiosURL}
}

func (p *DripDropz) Descriptor() models.Descriptor {
	return models.Descriptor{
		ID:          "dripdropz",
		Name:        "DripDropz",
		Icon:        "https://dripdropz.io/images/icon.svg",
		PlatformURL: "https://dripdropz.io",
	}
}

func (p *DripDropz) StakeCapable() bool { return true }

// BuildRequest returns the availability-check JSON body for the first
// address, assumed to already be a stake key. CheckRewards substitutes the
// resolved stake account when given a payment address.
func (p *DripDropz) BuildRequest(addresses []string) (string, error) {
	if len(addresses) == 0 {
		return "", config.ErrNoAddresses
	}
	body, err := json.Marshal(map[string]string{"stakeKey": addresses[0]})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	return string(body), nil
}

// CheckRewards resolves the stake account if needed, then queries available
// drips for it.
func (p *DripDropz) CheckRewards(ctx context.Context, addresses []string) (*models.ResultData, error) {
	data, err := p.check(ctx, addresses)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Descriptor().Name, err)
	}
	return data, nil
}

func (p *DripDropz) check(ctx context.Context, addresses []string) (*models.ResultData, error) {
	if len(addresses) == 0 {
		return nil, config.ErrNoAddresses
	}
	addr := addresses[0]
	if err := validate.Address(addr, p.StakeCapable()); err != nil {
		return nil, err
	}

	stakeKey := addr
	if validate.IsPaymentAddress(addr) {
		resolved, err := p.resolveStakeAccount(ctx, addr)
		if err != nil {
			return nil, err
		}
		stakeKey = resolved
	}

	body, err := p.BuildRequest([]string{stakeKey})
	if err != nil {
		return nil, err
	}

	raw, err := p.client.PostJSON(ctx, p.baseURL+"/tokens/available", []byte(body))
	if err != nil {
		return nil, err
	}
	return p.FormatResponse(raw)
}

// resolveStakeAccount looks up the delegation account of a payment address
// via the Koios address_info endpoint.
func (p *DripDropz) resolveStakeAccount(ctx context.Context, addr string) (string, error) {
	body, err := json.Marshal(map[string][]string{"_addresses": {addr}})
	if err != nil {
		return "", fmt.Errorf("encode address_info request: %w", err)
	}

	raw, err := p.client.PostJSON(ctx, p.koiosURL+"/address_info", body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", config.ErrStakeResolveFail, err)
	}

	var infos []koiosAddressInfo
	if err := json.Unmarshal(raw, &infos); err != nil {
		return "", fmt.Errorf("%w: decode address_info: %v", config.ErrStakeResolveFail, err)
	}
	if len(infos) == 0 || infos[0].StakeAddress == "" {
		return "", fmt.Errorf("%w: address has no stake account", config.ErrStakeResolveFail)
	}
	return infos[0].StakeAddress, nil
}

// FormatResponse reshapes the DripDropz reply into normalized reward data.
func (p *DripDropz) FormatResponse(raw []byte) (*models.ResultData, error) {
	var resp dripDropzResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrApplicationError, resp.Error)
	}

	set := NewTokenSet()
	for _, item := range resp.Available {
		decimals := config.DefaultTokenDecimals
		if item.Token.Decimals != nil {
			decimals = *item.Token.Decimals
		}
		amount, err := ParseUnits(item.Quantity, decimals)
		if err != nil {
			return nil, err
		}
		set.Add(models.TokenAmount{
			Symbol:   item.Token.Ticker,
			Name:     item.Token.Name,
			Amount:   amount,
			PolicyID: item.Token.PolicyID,
		})
	}

	return &models.ResultData{
		ProviderName: p.Descriptor().Name,
		Tokens:       set.Tokens(),
		Metadata: &models.ResultMetadata{
			ClaimURL:   p.Descriptor().PlatformURL,
			StakeCount: resp.StakeCount,
		},
	}, nil
}
