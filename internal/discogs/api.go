package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
)

const (
	defaultBaseURL    = "https://api.discogs.com"
	defaultUserAgent  = "vinyl-pricer/1.0"
	defaultCurrency   = "USD"
	defaultMaxRetries = 5
	searchPageSize    = 5
)

// APIClient implements Client against the Discogs REST API.
type APIClient struct {
	token      string
	baseURL    string
	userAgent  string
	currency   string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	logger     *slog.Logger
}

// Option configures the APIClient.
type Option func(*APIClient)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *APIClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithUserAgent sets the User-Agent Discogs requires on every request.
func WithUserAgent(ua string) Option {
	return func(c *APIClient) {
		c.userAgent = ua
	}
}

// WithCurrency sets the currency for marketplace stats.
func WithCurrency(cur string) Option {
	return func(c *APIClient) {
		c.currency = cur
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *APIClient) {
		c.client = hc
	}
}

// WithRateLimiter throttles every request through l.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *APIClient) {
		c.limiter = l
	}
}

// WithRetry sets the attempt count and initial backoff for 429 and 5xx
// responses.
func WithRetry(maxRetries int, backoff time.Duration) Option {
	return func(c *APIClient) {
		c.maxRetries = maxRetries
		c.backoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *APIClient) {
		c.logger = l
	}
}

// NewAPIClient creates a Discogs client authenticated with a personal
// access token.
func NewAPIClient(token string, opts ...Option) *APIClient {
	c := &APIClient{
		token:      strings.TrimSpace(token),
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		currency:   defaultCurrency,
		client:     &http.Client{Timeout: 40 * time.Second},
		maxRetries: defaultMaxRetries,
		backoff:    time.Second,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	return c
}

// SearchRelease implements Client.SearchRelease. The first result wins.
func (c *APIClient) SearchRelease(ctx context.Context, req SearchRequest) (*Release, error) {
	q := strings.TrimSpace(req.Artist + " " + req.Title)
	if q == "" {
		return nil, errors.New("search requires artist or title")
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("type", "release")
	params.Set("per_page", strconv.Itoa(searchPageSize))
	params.Set("page", "1")
	if req.Country != "" {
		params.Set("country", req.Country)
	}
	if req.Year > 0 {
		params.Set("year", strconv.Itoa(req.Year))
	}
	if req.Catalog != "" {
		params.Set("catno", req.Catalog)
	}

	var resp searchResponse
	if err := c.get(ctx, "search", "/database/search", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("no release matching %q: %w", q, ErrNotFound)
	}
	return &resp.Results[0], nil
}

// MarketplaceStats implements Client.MarketplaceStats.
func (c *APIClient) MarketplaceStats(ctx context.Context, releaseID int) (*MarketplaceStats, error) {
	params := url.Values{}
	params.Set("curr_abbr", c.currency)

	var stats MarketplaceStats
	path := "/marketplace/stats/" + strconv.Itoa(releaseID)
	if err := c.get(ctx, "stats", path, params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PriceSuggestions implements Client.PriceSuggestions. Discogs only serves
// suggestions to sellers with a configured seller profile.
func (c *APIClient) PriceSuggestions(ctx context.Context, releaseID int) (PriceSuggestions, error) {
	var s PriceSuggestions
	path := "/marketplace/price_suggestions/" + strconv.Itoa(releaseID)
	if err := c.get(ctx, "price_suggestions", path, nil, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// get performs a GET with retry on 429 and 5xx and decodes JSON into out.
func (c *APIClient) get(
	ctx context.Context,
	endpoint, path string,
	params url.Values,
	out any,
) error {
	start := time.Now()
	defer func() {
		metrics.DiscogsRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	backoff := c.backoff
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, backoff); err != nil {
				return err
			}
			backoff = min(backoff*2, 10*time.Second)
		}

		body, status, err := c.do(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return err
			}
			lastErr = err
			c.logger.Warn("discogs request failed",
				"endpoint", endpoint, "attempt", attempt, "error", err)
			continue
		}

		switch {
		case status == http.StatusOK:
			metrics.DiscogsRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("parsing %s response: %w", endpoint, err)
			}
			return nil
		case status == http.StatusNotFound:
			metrics.DiscogsRequestsTotal.WithLabelValues(endpoint, "not_found").Inc()
			return fmt.Errorf("%s %s: %w", endpoint, path, ErrNotFound)
		case status == http.StatusTooManyRequests || status >= 500:
			metrics.DiscogsRequestsTotal.WithLabelValues(endpoint, "retry").Inc()
			lastErr = fmt.Errorf("discogs API error (status %d): %s", status, truncate(body))
			c.logger.Warn("discogs transient error",
				"endpoint", endpoint, "status", status, "attempt", attempt)
		default:
			metrics.DiscogsRequestsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("discogs API error (status %d): %s", status, truncate(body))
		}
	}

	metrics.DiscogsRequestsTotal.WithLabelValues(endpoint, "exhausted").Inc()
	return fmt.Errorf("%s: giving up after %d attempts: %w", endpoint, c.maxRetries, lastErr)
}

func (c *APIClient) do(ctx context.Context, u string) ([]byte, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(b []byte) string {
	const maxLen = 256
	if len(b) > maxLen {
		return string(b[:maxLen]) + "..."
	}
	return string(b)
}
