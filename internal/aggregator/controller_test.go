package aggregator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/adalens/adalens/internal/config"
	"github.com/adalens/adalens/internal/models"
	"github.com/adalens/adalens/internal/provider"
)

var testPaymentAddr = "addr1" + strings.Repeat("q", 98)

// stubAdapter is a canned provider for controller tests.
type stubAdapter struct {
	id    string
	delay time.Duration
	data  *models.ResultData
	err   error
}

func (s *stubAdapter) Descriptor() models.Descriptor {
	return models.Descriptor{ID: s.id, Name: s.id}
}

func (s *stubAdapter) StakeCapable() bool { return true }

func (s *stubAdapter) BuildRequest(addresses []string) (string, error) {
	return "", nil
}

func (s *stubAdapter) CheckRewards(ctx context.Context, addresses []string) (*models.ResultData, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.data, s.err
}

func (s *stubAdapter) FormatResponse(raw []byte) (*models.ResultData, error) {
	return s.data, s.err
}

func successWithToken(id string, amount float64) *stubAdapter {
	return &stubAdapter{
		id: id,
		data: &models.ResultData{
			ProviderName: id,
			Tokens:       []models.TokenAmount{{Symbol: "TOK", Amount: amount}},
		},
	}
}

func successEmpty(id string) *stubAdapter {
	return &stubAdapter{id: id, data: &models.ResultData{ProviderName: id}}
}

func failing(id string) *stubAdapter {
	return &stubAdapter{id: id, err: errors.New(id + ": boom")}
}

func TestSortByPriority(t *testing.T) {
	// Accumulated in arrival order: a failure, a success with a positive
	// token, then a success with no tokens.
	results := []models.ProviderResult{
		{ProviderID: "a", Success: false, Error: "a: boom"},
		{ProviderID: "b", Success: true, Data: &models.ResultData{
			Tokens: []models.TokenAmount{{Symbol: "TOK", Amount: 5}},
		}},
		{ProviderID: "c", Success: true, Data: &models.ResultData{}},
	}

	ordered := SortByPriority(results)

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if ordered[i].ProviderID != id {
			t.Fatalf("ordered[%d] = %q, want %q (full order %v)", i, ordered[i].ProviderID, id, ids(ordered))
		}
	}
}

func TestSortByPriority_StableWithinPartition(t *testing.T) {
	results := []models.ProviderResult{
		{ProviderID: "x", Success: true, Data: &models.ResultData{
			Tokens: []models.TokenAmount{{Symbol: "A", Amount: 1}},
		}},
		{ProviderID: "y", Success: true, Data: &models.ResultData{
			Tokens: []models.TokenAmount{{Symbol: "B", Amount: 9}},
		}},
	}

	ordered := SortByPriority(results)

	// Amount magnitude does not rank; arrival order holds inside a partition.
	if ordered[0].ProviderID != "x" || ordered[1].ProviderID != "y" {
		t.Errorf("order = %v, want [x y]", ids(ordered))
	}
}

func TestSortByPriority_ZeroAmountIsNotPositive(t *testing.T) {
	results := []models.ProviderResult{
		{ProviderID: "zero", Success: true, Data: &models.ResultData{
			Tokens: []models.TokenAmount{{Symbol: "TOK", Amount: 0}},
		}},
		{ProviderID: "pos", Success: true, Data: &models.ResultData{
			Tokens: []models.TokenAmount{{Symbol: "TOK", Amount: 0.5}},
		}},
	}

	ordered := SortByPriority(results)

	if ordered[0].ProviderID != "pos" {
		t.Errorf("order = %v, want pos before zero", ids(ordered))
	}
}

func TestController_Check(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(failing("a"))
	reg.Register(successWithToken("b", 5))
	reg.Register(successEmpty("c"))

	c := NewController(reg, nil)

	ordered, err := c.Check(context.Background(), testPaymentAddr, CheckOptions{
		Timeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(ordered) != 3 {
		t.Fatalf("got %d results, want 3", len(ordered))
	}

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if ordered[i].ProviderID != id {
			t.Fatalf("ordered[%d] = %q, want %q", i, ordered[i].ProviderID, id)
		}
	}
}

func TestController_CheckInvalidAddress(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(successWithToken("b", 1))

	c := NewController(reg, nil)

	_, err := c.Check(context.Background(), "not-an-address", CheckOptions{})
	if !errors.Is(err, config.ErrInvalidAddress) {
		t.Fatalf("error = %v, want ErrInvalidAddress", err)
	}
}

func TestController_CheckBroadcastsEvents(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(successWithToken("b", 5))
	reg.Register(failing("a"))

	hub := NewSSEHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	c := NewController(reg, hub)
	if _, err := c.Check(context.Background(), testPaymentAddr, CheckOptions{Timeout: 2 * time.Second}); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	var types []string
	for len(ch) > 0 {
		types = append(types, (<-ch).Type)
	}

	if len(types) != 4 {
		t.Fatalf("got events %v, want check_started, two check_result, check_complete", types)
	}
	if types[0] != "check_started" || types[3] != "check_complete" {
		t.Errorf("event order = %v", types)
	}
	if types[1] != "check_result" || types[2] != "check_result" {
		t.Errorf("event order = %v", types)
	}
}

func TestController_CheckInvalidAddressBroadcastsError(t *testing.T) {
	hub := NewSSEHub()
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	c := NewController(provider.NewRegistry(), hub)
	c.Check(context.Background(), "bogus", CheckOptions{})

	select {
	case ev := <-ch:
		if ev.Type != "check_error" {
			t.Errorf("event type = %q, want check_error", ev.Type)
		}
		data, ok := ev.Data.(CheckErrorData)
		if !ok {
			t.Fatalf("payload type = %T", ev.Data)
		}
		if data.Error != config.ErrorInvalidAddress {
			t.Errorf("error code = %q", data.Error)
		}
	default:
		t.Fatal("no event broadcast")
	}
}

func TestController_CheckFilters(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(successWithToken("a", 1))
	reg.Register(successWithToken("b", 1))
	reg.Register(successWithToken("c", 1))

	c := NewController(reg, nil)

	ordered, err := c.Check(context.Background(), testPaymentAddr, CheckOptions{
		Timeout: 2 * time.Second,
		Include: []string{"a", "c"},
		Exclude: []string{"c"},
	})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if len(ordered) != 1 || ordered[0].ProviderID != "a" {
		t.Errorf("results = %v, want only a", ids(ordered))
	}
}

func ids(results []models.ProviderResult) []string {
	out := make([]string, len(results))
	for i, res := range results {
		out[i] = res.ProviderID
	}
	return out
}
