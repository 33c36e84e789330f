package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ai "github.com/spindlehq/spindle"
)

// InstantOption configures a DuckDuckGoInstant client.
type InstantOption func(*instantConfig)

type instantConfig struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	baseURL   string
}

// WithInstantClient sets a custom HTTP client.
func WithInstantClient(c *http.Client) InstantOption {
	return func(cfg *instantConfig) {
		cfg.client = c
	}
}

// WithInstantTimeout sets the request timeout.
// Default is 15 seconds.
func WithInstantTimeout(d time.Duration) InstantOption {
	return func(cfg *instantConfig) {
		cfg.timeout = d
	}
}

// WithInstantBaseURL overrides the endpoint queried. Used in tests.
func WithInstantBaseURL(u string) InstantOption {
	return func(cfg *instantConfig) {
		cfg.baseURL = u
	}
}

// DuckDuckGoInstant queries the DuckDuckGo Instant Answer API, which
// returns structured JSON (abstracts, definitions, related topics)
// without an API key.
type DuckDuckGoInstant struct {
	cfg *instantConfig
}

// NewDuckDuckGoInstant creates an instant answer client.
func NewDuckDuckGoInstant(opts ...InstantOption) *DuckDuckGoInstant {
	cfg := &instantConfig{
		timeout:   15 * time.Second,
		userAgent: "Mozilla/5.0 (compatible; spindle/1.0)",
		baseURL:   "https://api.duckduckgo.com/",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	return &DuckDuckGoInstant{cfg: cfg}
}

// InstantAnswer returns the raw JSON instant answer for a query.
func (d *DuckDuckGoInstant) InstantAnswer(ctx context.Context, query string) (json.RawMessage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ai.NewUserInputError("instant answer query is empty", 0, nil)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.cfg.userAgent)

	resp, err := d.cfg.client.Do(req)
	if err != nil {
		if ai.IsCancellation(err) {
			return nil, err
		}
		return nil, ai.NewTransientError("instant answer request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("instant answer returned status %d", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, ai.NewTransientError(msg, resp.StatusCode, nil)
		}
		return nil, ai.NewPermanentError(msg, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, ai.NewTransientError("reading instant answer response", 0, err)
	}

	if !json.Valid(body) {
		return nil, ai.NewPermanentError("instant answer response is not valid JSON", 0, nil)
	}
	return json.RawMessage(body), nil
}

var _ InstantAnswerer = (*DuckDuckGoInstant)(nil)
