package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	ai "github.com/spindlehq/spindle"
)

// FetchOption configures an HTTPFetcher.
type FetchOption func(*fetchConfig)

type fetchConfig struct {
	client          *http.Client
	allowedHosts    []string
	blockedHosts    []string
	maxResponseSize int64
	timeout         time.Duration
	userAgent       string
	attempts        uint
	stripHTML       bool
}

// WithFetchClient sets a custom HTTP client.
func WithFetchClient(c *http.Client) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.client = c
	}
}

// WithAllowedHosts restricts fetches to specific hosts only.
func WithAllowedHosts(hosts ...string) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.allowedHosts = hosts
	}
}

// WithBlockedHosts blocks fetches to specific hosts.
func WithBlockedHosts(hosts ...string) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.blockedHosts = hosts
	}
}

// WithMaxResponseSize sets the maximum response body size.
// Default is 4MB.
func WithMaxResponseSize(bytes int64) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.maxResponseSize = bytes
	}
}

// WithFetchTimeout sets the request timeout.
// Default is 30 seconds.
func WithFetchTimeout(d time.Duration) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.timeout = d
	}
}

// WithFetchUserAgent sets the User-Agent header.
func WithFetchUserAgent(ua string) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.userAgent = ua
	}
}

// WithFetchAttempts sets how many times a failed fetch is retried.
// Default is 3.
func WithFetchAttempts(n uint) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.attempts = n
	}
}

// WithStripHTML controls whether HTML markup is stripped from the
// fetched body. Default is true.
func WithStripHTML(strip bool) FetchOption {
	return func(cfg *fetchConfig) {
		cfg.stripHTML = strip
	}
}

// HTTPFetcher retrieves page content over HTTP with host filtering,
// a response size cap, and retries on transient failures.
type HTTPFetcher struct {
	cfg *fetchConfig
}

// NewHTTPFetcher creates a fetcher with the given options.
func NewHTTPFetcher(opts ...FetchOption) *HTTPFetcher {
	cfg := &fetchConfig{
		maxResponseSize: 4 * 1024 * 1024,
		timeout:         30 * time.Second,
		userAgent:       "Mozilla/5.0 (compatible; spindle/1.0)",
		attempts:        3,
		stripHTML:       true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: cfg.timeout}
	}
	return &HTTPFetcher{cfg: cfg}
}

func (f *HTTPFetcher) checkHost(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ai.NewUserInputError("invalid url", 0, err)
	}

	host := u.Hostname()

	for _, blocked := range f.cfg.blockedHosts {
		if host == blocked || strings.HasSuffix(host, "."+blocked) {
			return ai.NewUserInputError(fmt.Sprintf("host %q is blocked", host), 0, nil)
		}
	}

	if len(f.cfg.allowedHosts) > 0 {
		allowed := false
		for _, a := range f.cfg.allowedHosts {
			if host == a || strings.HasSuffix(host, "."+a) {
				allowed = true
				break
			}
		}
		if !allowed {
			return ai.NewUserInputError(fmt.Sprintf("host %q is not in allowed list", host), 0, nil)
		}
	}

	return nil
}

// Fetch retrieves the content at the given URL. Transient failures
// (network errors, 5xx, 429) are retried; 4xx responses are not.
func (f *HTTPFetcher) Fetch(ctx context.Context, urlStr string) (string, error) {
	if err := f.checkHost(urlStr); err != nil {
		return "", err
	}

	body, err := retry.DoWithData(
		func() (string, error) {
			return f.fetchOnce(ctx, urlStr)
		},
		retry.Context(ctx),
		retry.Attempts(f.cfg.attempts),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	if f.cfg.stripHTML {
		body = StripHTML(body)
	}
	return body, nil
}

func (f *HTTPFetcher) fetchOnce(ctx context.Context, urlStr string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", retry.Unrecoverable(ai.NewUserInputError("invalid request", 0, err))
	}
	req.Header.Set("User-Agent", f.cfg.userAgent)

	resp, err := f.cfg.client.Do(req)
	if err != nil {
		if ai.IsCancellation(err) {
			return "", retry.Unrecoverable(err)
		}
		return "", ai.NewTransientError("fetch failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", ai.NewTransientError(
			fmt.Sprintf("fetch returned status %d", resp.StatusCode), resp.StatusCode, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", retry.Unrecoverable(ai.NewPermanentError(
			fmt.Sprintf("fetch returned status %d", resp.StatusCode), resp.StatusCode, nil))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.maxResponseSize))
	if err != nil {
		return "", ai.NewTransientError("reading response body", 0, err)
	}
	return string(data), nil
}

var (
	scriptRe     = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe      = regexp.MustCompile(`(?is)<style.*?</style>`)
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes script and style blocks, strips tags, and
// collapses runs of blank lines so the result reads as plain text.
func StripHTML(s string) string {
	s = scriptRe.ReplaceAllString(s, "")
	s = styleRe.ReplaceAllString(s, "")
	s = htmlTagRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

var _ Fetcher = (*HTTPFetcher)(nil)
