package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/adalens/adalens/internal/config"
)

// Client is the shared transport used by every adapter: one HTTP client
// with a per-provider rate limiter and circuit breaker, plus optional CORS
// relay rewriting for services whose origin blocks direct browser calls.
type Client struct {
	http  *http.Client
	rl    *rate.Limiter
	cb    *CircuitBreaker
	relay string // relay prefix, empty = direct
	name  string
}

// NewClient creates a transport for one provider limited to rps requests
// per second. relayBase, when non-empty, rewrites every request URL to
// relayBase + url-encoded target and unwraps the relay's response envelope.
func NewClient(name string, httpClient *http.Client, rps int, relayBase string) *Client {
	slog.Debug("provider transport created",
		"provider", name,
		"rps", rps,
		"relayed", relayBase != "",
	)
	return &Client{
		http: httpClient,
		// Burst(1) spreads requests evenly across the second, avoiding
		// bursts that trip upstream rate limiting.
		rl:    rate.NewLimiter(rate.Limit(rps), 1),
		cb:    NewCircuitBreaker(name, config.CircuitBreakerThreshold, config.CircuitBreakerCooldown),
		relay: relayBase,
		name:  name,
	}
}

// GetJSON performs a GET against target and returns the response body.
func (c *Client) GetJSON(ctx context.Context, target string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, target, nil)
}

// PostJSON performs a POST with a JSON body against target and returns the
// response body.
func (c *Client) PostJSON(ctx context.Context, target string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, target, body)
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) ([]byte, error) {
	if !c.cb.Allow() {
		return nil, config.ErrCircuitOpen
	}

	if err := c.rl.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	relayed := c.relay != ""
	requestURL := target
	if relayed {
		requestURL = c.relay + url.QueryEscape(target)
	}

	slog.Debug("provider request",
		"provider", c.name,
		"method", method,
		"url", requestURL,
	)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.cb.RecordFailure()
		return nil, fmt.Errorf("%w: %v", config.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.cb.RecordFailure()
		slog.Warn("provider rate limited", "provider", c.name)
		return nil, config.ErrProviderRateLimit
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.cb.RecordFailure()
		slog.Warn("provider non-2xx response",
			"provider", c.name,
			"status", resp.StatusCode,
		)
		return nil, fmt.Errorf("%w: HTTP %d %s", config.ErrProviderUnavailable, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.cb.RecordFailure()
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.cb.RecordSuccess()

	if relayed {
		raw = unwrapRelayEnvelope(raw)
	}
	return raw, nil
}

// Breaker exposes the transport's circuit breaker.
func (c *Client) Breaker() *CircuitBreaker {
	return c.cb
}

// unwrapRelayEnvelope extracts the real payload from a CORS relay response
// of the form {"contents": <json-string-or-object>}. Bodies without the
// envelope pass through untouched.
func unwrapRelayEnvelope(raw []byte) []byte {
	var env struct {
		Contents json.RawMessage `json:"contents"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Contents) == 0 {
		return raw
	}

	// contents may itself be a JSON-encoded string holding the payload.
	if env.Contents[0] == '"' {
		var s string
		if err := json.Unmarshal(env.Contents, &s); err == nil {
			return []byte(s)
		}
	}
	return env.Contents
}
