package tool

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	ai "github.com/spindlehq/spindle"
)

// SearchOption configures a DuckDuckGoSearcher.
type SearchOption func(*searchConfig)

type searchConfig struct {
	client     *http.Client
	maxResults int
	timeout    time.Duration
	userAgent  string
	baseURL    string
	liteURL    string
}

// WithSearchClient sets a custom HTTP client.
func WithSearchClient(c *http.Client) SearchOption {
	return func(cfg *searchConfig) {
		cfg.client = c
	}
}

// WithSearchMaxResults limits the number of results returned.
// Default is 10.
func WithSearchMaxResults(n int) SearchOption {
	return func(cfg *searchConfig) {
		cfg.maxResults = n
	}
}

// WithSearchTimeout sets the request timeout.
// Default is 30 seconds.
func WithSearchTimeout(d time.Duration) SearchOption {
	return func(cfg *searchConfig) {
		cfg.timeout = d
	}
}

// WithSearchUserAgent sets the User-Agent header.
func WithSearchUserAgent(ua string) SearchOption {
	return func(cfg *searchConfig) {
		cfg.userAgent = ua
	}
}

// WithSearchBaseURL overrides the endpoints queried. Used in tests.
func WithSearchBaseURL(htmlURL, liteURL string) SearchOption {
	return func(cfg *searchConfig) {
		cfg.baseURL = htmlURL
		cfg.liteURL = liteURL
	}
}

// DuckDuckGoSearcher scrapes the DuckDuckGo HTML endpoints, which
// require no API key. The "lite" engine variant queries the
// lightweight endpoint instead.
type DuckDuckGoSearcher struct {
	cfg *searchConfig
}

// NewDuckDuckGoSearcher creates a searcher with the given options.
func NewDuckDuckGoSearcher(opts ...SearchOption) *DuckDuckGoSearcher {
	cfg := &searchConfig{
		maxResults: 10,
		timeout:    30 * time.Second,
		userAgent:  "Mozilla/5.0 (compatible; spindle/1.0)",
		baseURL:    "https://html.duckduckgo.com/html/",
		liteURL:    "https://lite.duckduckgo.com/lite/",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	return &DuckDuckGoSearcher{cfg: cfg}
}

var (
	resultLinkRe    = regexp.MustCompile(`<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	resultSnippetRe = regexp.MustCompile(`<a[^>]+class="result__snippet"[^>]*>(.*?)</a>`)
	liteLinkRe      = regexp.MustCompile(`<a[^>]+class="result-link"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	tagRe           = regexp.MustCompile(`<[^>]+>`)
)

// Search queries DuckDuckGo and returns parsed results. The engine
// string selects the endpoint; anything other than "lite" uses the
// full HTML endpoint.
func (s *DuckDuckGoSearcher) Search(ctx context.Context, query, engine string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ai.NewUserInputError("search query is empty", 0, nil)
	}

	endpoint := s.cfg.baseURL
	linkRe := resultLinkRe
	if engine == "lite" {
		endpoint = s.cfg.liteURL
		linkRe = liteLinkRe
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.userAgent)

	resp, err := s.cfg.client.Do(req)
	if err != nil {
		if ai.IsCancellation(err) {
			return nil, err
		}
		return nil, ai.NewTransientError("search request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("search returned status %d", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, ai.NewTransientError(msg, resp.StatusCode, nil)
		}
		return nil, ai.NewPermanentError(msg, resp.StatusCode, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil, ai.NewTransientError("reading search response", 0, err)
	}

	return s.parse(string(body), linkRe), nil
}

func (s *DuckDuckGoSearcher) parse(page string, linkRe *regexp.Regexp) []SearchResult {
	links := linkRe.FindAllStringSubmatch(page, -1)
	snippets := resultSnippetRe.FindAllStringSubmatch(page, -1)

	var results []SearchResult
	for i, m := range links {
		if len(results) >= s.cfg.maxResults {
			break
		}
		u := decodeRedirect(m[1])
		title := cleanHTML(m[2])
		if u == "" || title == "" {
			continue
		}
		r := SearchResult{Title: title, URL: u}
		if i < len(snippets) {
			r.Snippet = cleanHTML(snippets[i][1])
		}
		results = append(results, r)
	}
	return results
}

// decodeRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=...
// redirect links back to the target URL.
func decodeRedirect(href string) string {
	href = html.UnescapeString(href)
	if !strings.Contains(href, "uddg=") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func cleanHTML(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

var _ Searcher = (*DuckDuckGoSearcher)(nil)
