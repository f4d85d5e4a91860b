package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adalens/adalens/internal/config"
)

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := NewClient("test", server.Client(), 100, "")
	body, err := c.GetJSON(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %s", body)
	}
}

func TestClient_RelayRewriteAndUnwrap(t *testing.T) {
	target := "https://blocked.example.com/api/rewards"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("url"); got != target {
			t.Errorf("relay url param = %q, want %q", got, target)
		}
		// Relay wraps the upstream body as a JSON-encoded string.
		w.Write([]byte(`{"contents":"{\"rewards\":[]}","status":{"http_code":200}}`))
	}))
	defer server.Close()

	c := NewClient("test", server.Client(), 100, server.URL+"/get?url=")
	body, err := c.GetJSON(context.Background(), target)
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if string(body) != `{"rewards":[]}` {
		t.Errorf("unwrapped body = %s", body)
	}
}

func TestUnwrapRelayEnvelope(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string contents", `{"contents":"{\"a\":1}"}`, `{"a":1}`},
		{"object contents", `{"contents":{"a":1}}`, `{"a":1}`},
		{"no envelope passes through", `{"a":1}`, `{"a":1}`},
		{"not json passes through", `hello`, `hello`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(unwrapRelayEnvelope([]byte(tt.raw))); got != tt.want {
				t.Errorf("unwrapRelayEnvelope(%s) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestClient_RateLimitStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := NewClient("test", server.Client(), 100, "")
	_, err := c.GetJSON(context.Background(), server.URL)
	if !errors.Is(err, config.ErrProviderRateLimit) {
		t.Errorf("error = %v, want ErrProviderRateLimit", err)
	}
}

func TestClient_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient("test", server.Client(), 100, "")
	_, err := c.GetJSON(context.Background(), server.URL)
	if !errors.Is(err, config.ErrProviderUnavailable) {
		t.Errorf("error = %v, want ErrProviderUnavailable", err)
	}
}

func TestClient_PostJSONSetsContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient("test", server.Client(), 100, "")
	if _, err := c.PostJSON(context.Background(), server.URL, []byte(`{"a":1}`)); err != nil {
		t.Fatalf("PostJSON() error = %v", err)
	}
}

func TestClient_CircuitOpensAfterRepeatedFailures(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient("test", server.Client(), 1000, "")
	for i := 0; i < config.CircuitBreakerThreshold; i++ {
		c.GetJSON(context.Background(), server.URL)
	}

	if state := c.Breaker().State(); state != config.CircuitOpen {
		t.Fatalf("breaker state = %q, want open", state)
	}

	_, err := c.GetJSON(context.Background(), server.URL)
	if !errors.Is(err, config.ErrCircuitOpen) {
		t.Errorf("error = %v, want ErrCircuitOpen", err)
	}
	if hits != config.CircuitBreakerThreshold {
		t.Errorf("upstream hits = %d, want %d (open circuit must not call out)", hits, config.CircuitBreakerThreshold)
	}
}
