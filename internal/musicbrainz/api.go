package musicbrainz

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
	defaultBaseURL   = "https://musicbrainz.org/ws/2"
	defaultUserAgent = "vinyl-pricer/1.0 (https://github.com/donaldgifford/vinyl-pricer)"
	searchLimit      = 5
	maxBodyBytes     = 512 * 1024
)

// ErrUnavailable is returned when MusicBrainz is throttling or down.
var ErrUnavailable = errors.New("musicbrainz: unavailable")

// APIClient implements Client against the MusicBrainz web service.
type APIClient struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
}

// Option configures the APIClient.
type Option func(*APIClient)

// WithBaseURL overrides the web service root.
func WithBaseURL(u string) Option {
	return func(c *APIClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithUserAgent sets the User-Agent. MusicBrainz blocks anonymous agents.
func WithUserAgent(ua string) Option {
	return func(c *APIClient) {
		c.userAgent = ua
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

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *APIClient) {
		c.logger = l
	}
}

// NewAPIClient creates a MusicBrainz client. Without WithRateLimiter it
// keeps to one request per second.
func NewAPIClient(opts ...Option) *APIClient {
	c := &APIClient{
		baseURL:   defaultBaseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: 15 * time.Second},
		limiter:   rate.NewLimiter(rate.Limit(1), 1),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(slog.String("provider", "musicbrainz"))
	return c
}

// SearchReleases implements Client.SearchReleases.
func (c *APIClient) SearchReleases(ctx context.Context, req SearchRequest) ([]Release, error) {
	query := searchQuery(req)
	if query == "" {
		return nil, errors.New("search requires artist or title")
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(searchLimit))

	var resp searchResponse
	if err := c.get(ctx, "search", "/release", params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Releases) == 0 {
		return nil, fmt.Errorf("no release matching %s: %w", query, ErrNotFound)
	}
	return resp.Releases, nil
}

// LookupRelease implements Client.LookupRelease.
func (c *APIClient) LookupRelease(ctx context.Context, mbid string) (*Release, error) {
	params := url.Values{}
	params.Set("inc", "url-rels+labels")

	var rel Release
	if err := c.get(ctx, "lookup", "/release/"+url.PathEscape(mbid), params, &rel); err != nil {
		return nil, err
	}
	return &rel, nil
}

// searchQuery builds a Lucene query over the release index.
func searchQuery(req SearchRequest) string {
	var parts []string
	add := func(field, value string) {
		if v := strings.TrimSpace(value); v != "" {
			parts = append(parts, field+":"+quote(v))
		}
	}
	add("artist", req.Artist)
	add("release", req.Title)
	if len(parts) == 0 {
		return ""
	}
	add("catno", req.Catalog)
	add("label", req.Label)
	add("country", req.Country)
	if req.Year > 0 {
		parts = append(parts, "date:"+strconv.Itoa(req.Year))
	}
	return strings.Join(parts, " AND ")
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// get performs a rate-limited GET and decodes the JSON body into out.
func (c *APIClient) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	start := time.Now()
	defer func() {
		metrics.MusicBrainzRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	params.Set("fmt", "json")
	u := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("requesting", "endpoint", endpoint, "path", path)

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.MusicBrainzRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%s: executing request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		metrics.MusicBrainzRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("parsing %s response: %w", endpoint, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound:
		metrics.MusicBrainzRequestsTotal.WithLabelValues(endpoint, "not_found").Inc()
		return fmt.Errorf("%s %s: %w", endpoint, path, ErrNotFound)
	case resp.StatusCode == http.StatusServiceUnavailable || resp.StatusCode == http.StatusTooManyRequests:
		metrics.MusicBrainzRequestsTotal.WithLabelValues(endpoint, "throttled").Inc()
		return fmt.Errorf("%s (status %d): %w", endpoint, resp.StatusCode, ErrUnavailable)
	default:
		metrics.MusicBrainzRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("musicbrainz API error (status %d): %s", resp.StatusCode, truncate(body))
	}
}

func truncate(b []byte) string {
	const maxLen = 256
	if len(b) > maxLen {
		return string(b[:maxLen]) + "..."
	}
	return string(b)
}
