package provider

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/adalens/adalens/internal/models"
)

// stubAdapter is a canned in-memory adapter for registry tests.
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

func (s *stubAdapter) BuildRequest(addresses []string) (string, error) { return "", nil }

func (s *stubAdapter) CheckRewards(ctx context.Context, addresses []string) (*models.ResultData, error) {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.data != nil {
		return s.data, nil
	}
	return &models.ResultData{ProviderName: s.id, Tokens: []models.TokenAmount{}}, nil
}

func (s *stubAdapter) FormatResponse(raw []byte) (*models.ResultData, error) { return s.data, nil }

func TestRegistry_All_RegistrationOrder(t *testing.T) {
	r := NewRegistry(
		&stubAdapter{id: "c"},
		&stubAdapter{id: "a"},
		&stubAdapter{id: "b"},
	)

	descriptors := r.All()
	if len(descriptors) != 3 {
		t.Fatalf("expected 3 descriptors, got %d", len(descriptors))
	}
	want := []string{"c", "a", "b"}
	for i, d := range descriptors {
		if d.ID != want[i] {
			t.Errorf("descriptor[%d] = %q, want %q", i, d.ID, want[i])
		}
	}
}

func TestRegistry_Register_DuplicateLastWriteWins(t *testing.T) {
	first := &stubAdapter{id: "dup", err: errors.New("old")}
	second := &stubAdapter{id: "dup"}

	r := NewRegistry(first, &stubAdapter{id: "other"})
	r.Register(second)

	descriptors := r.All()
	if len(descriptors) != 2 {
		t.Fatalf("expected 2 descriptors after duplicate register, got %d", len(descriptors))
	}
	// Original position kept.
	if descriptors[0].ID != "dup" {
		t.Errorf("descriptor[0] = %q, want dup", descriptors[0].ID)
	}

	// The replacement adapter serves the id.
	results := r.CheckAll(context.Background(), []string{"x"}, CheckOptions{Include: []string{"dup"}})
	if len(results) != 1 || !results[0].Success {
		t.Errorf("expected replacement adapter to succeed, got %+v", results)
	}
}

func TestRegistry_Filtered(t *testing.T) {
	r := NewRegistry(
		&stubAdapter{id: "a"},
		&stubAdapter{id: "b"},
		&stubAdapter{id: "c"},
	)

	tests := []struct {
		name    string
		include []string
		exclude []string
		want    []string
	}{
		{"no filters", nil, nil, []string{"a", "b", "c"}},
		{"include subset", []string{"c", "a"}, nil, []string{"a", "c"}},
		{"exclude subset", nil, []string{"b"}, []string{"a", "c"}},
		{"exclude applied after include", []string{"a", "b"}, []string{"b"}, []string{"a"}},
		{"unknown include id ignored", []string{"zz"}, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected := r.Filtered(tt.include, tt.exclude)
			if len(selected) != len(tt.want) {
				t.Fatalf("selected %d adapters, want %d", len(selected), len(tt.want))
			}
			for i, a := range selected {
				if a.Descriptor().ID != tt.want[i] {
					t.Errorf("selected[%d] = %q, want %q", i, a.Descriptor().ID, tt.want[i])
				}
			}
		})
	}
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry(&stubAdapter{id: "a"}, &stubAdapter{id: "b"})
	r.Remove("a")
	r.Remove("missing") // no-op

	descriptors := r.All()
	if len(descriptors) != 1 || descriptors[0].ID != "b" {
		t.Errorf("descriptors after remove = %+v, want just b", descriptors)
	}
}

func TestCheckAll_BatchOrdering(t *testing.T) {
	r := NewRegistry(
		&stubAdapter{id: "a"},
		&stubAdapter{id: "b", err: errors.New("boom b")},
		&stubAdapter{id: "c"},
		&stubAdapter{id: "d", err: errors.New("boom d")},
	)

	results := r.CheckAll(context.Background(), []string{"x"}, CheckOptions{})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	// Successes first, both partitions in registration order.
	want := []string{"a", "c", "b", "d"}
	for i, res := range results {
		if res.ProviderID != want[i] {
			t.Errorf("result[%d] = %q, want %q", i, res.ProviderID, want[i])
		}
	}
	if !results[0].Success || !results[1].Success || results[2].Success || results[3].Success {
		t.Errorf("partition flags wrong: %+v", results)
	}
}

func TestCheckAll_StreamingExactlyOncePerProvider(t *testing.T) {
	r := NewRegistry(
		&stubAdapter{id: "a", delay: 30 * time.Millisecond},
		&stubAdapter{id: "b", err: errors.New("boom")},
		&stubAdapter{id: "c", delay: 10 * time.Millisecond},
		&stubAdapter{id: "d"},
		&stubAdapter{id: "e", delay: 20 * time.Millisecond},
	)

	var delivered []string
	ret := r.CheckAll(context.Background(), []string{"x"}, CheckOptions{
		OnResult: func(res models.ProviderResult) {
			delivered = append(delivered, res.ProviderID)
		},
	})

	if ret != nil {
		t.Errorf("streaming mode should return nil, got %d results", len(ret))
	}
	if len(delivered) != 5 {
		t.Fatalf("expected 5 deliveries, got %d", len(delivered))
	}

	sort.Strings(delivered)
	want := []string{"a", "b", "c", "d", "e"}
	for i := range want {
		if delivered[i] != want[i] {
			t.Errorf("delivered set = %v, want %v", delivered, want)
			break
		}
	}
}

func TestCheckAll_Timeout(t *testing.T) {
	r := NewRegistry(
		&stubAdapter{id: "slow", delay: 500 * time.Millisecond},
		&stubAdapter{id: "fast"},
	)

	deliveries := map[string]int{}
	r.CheckAll(context.Background(), []string{"x"}, CheckOptions{
		Timeout: 50 * time.Millisecond,
		OnResult: func(res models.ProviderResult) {
			deliveries[res.ProviderID]++
			if res.ProviderID == "slow" {
				if res.Success {
					t.Error("slow provider should have timed out")
				}
				if res.Error != TimeoutMessage {
					t.Errorf("timeout error = %q, want %q", res.Error, TimeoutMessage)
				}
			}
		},
	})

	if deliveries["slow"] != 1 || deliveries["fast"] != 1 {
		t.Errorf("deliveries = %v, want exactly one per provider", deliveries)
	}
}

func TestCheckAll_FailureMessagePropagates(t *testing.T) {
	r := NewRegistry(&stubAdapter{id: "x", err: errors.New("Service X: provider unavailable")})

	results := r.CheckAll(context.Background(), []string{"addr"}, CheckOptions{})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Success {
		t.Fatal("expected failure result")
	}
	if results[0].Error != "Service X: provider unavailable" {
		t.Errorf("error = %q", results[0].Error)
	}
}

func TestCheckAll_EmptySelection(t *testing.T) {
	r := NewRegistry(&stubAdapter{id: "a"})

	results := r.CheckAll(context.Background(), []string{"x"}, CheckOptions{Exclude: []string{"a"}})
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
