package ebay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
)

const (
	defaultAnalyticsURL = "https://api.ebay.com/developer/analytics/v1_beta/rate_limit/"

	// browseResource is the Analytics resource that counts Browse
	// item_summary/search calls.
	browseResource = "buy.browse"
)

// rateLimitResponse mirrors the Analytics getRateLimits payload down to the
// fields used here.
type rateLimitResponse struct {
	RateLimits []struct {
		APIContext string `json:"apiContext"`
		APIName    string `json:"apiName"`
		Resources  []struct {
			Name  string `json:"name"`
			Rates []struct {
				Count      int64  `json:"count"`
				Limit      int64  `json:"limit"`
				Remaining  int64  `json:"remaining"`
				Reset      string `json:"reset"`
				TimeWindow int64  `json:"timeWindow"`
			} `json:"rates"`
		} `json:"resources"`
	} `json:"rateLimits"`
}

// QuotaState is eBay's view of one API resource's call quota.
type QuotaState struct {
	Count      int64
	Limit      int64
	Remaining  int64
	ResetAt    time.Time
	TimeWindow time.Duration
}

// QuotaSyncer accepts the upstream quota, typically the local RateLimiter.
type QuotaSyncer interface {
	Sync(q *QuotaState)
}

// AnalyticsClient reads Browse API quota from the Developer Analytics API.
type AnalyticsClient struct {
	tokens   TokenProvider
	endpoint string
	hc       *http.Client
	syncers  []QuotaSyncer
}

// AnalyticsOption configures the AnalyticsClient.
type AnalyticsOption func(*AnalyticsClient)

// WithAnalyticsURL overrides the default Analytics API endpoint.
func WithAnalyticsURL(u string) AnalyticsOption {
	return func(c *AnalyticsClient) {
		if u != "" {
			c.endpoint = u
		}
	}
}

// WithAnalyticsHTTPClient overrides the default HTTP client.
func WithAnalyticsHTTPClient(hc *http.Client) AnalyticsOption {
	return func(c *AnalyticsClient) {
		c.hc = hc
	}
}

// WithQuotaSync forwards every successful quota read to s.
func WithQuotaSync(s QuotaSyncer) AnalyticsOption {
	return func(c *AnalyticsClient) {
		if s != nil {
			c.syncers = append(c.syncers, s)
		}
	}
}

// NewAnalyticsClient creates a new eBay Analytics API client.
func NewAnalyticsClient(tokens TokenProvider, opts ...AnalyticsOption) *AnalyticsClient {
	c := &AnalyticsClient{
		tokens:   tokens,
		endpoint: defaultAnalyticsURL,
		hc:       &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetBrowseQuota returns the quota of the Browse search resource, publishes
// it to the quota gauges and hands it to any configured syncers.
func (c *AnalyticsClient) GetBrowseQuota(ctx context.Context) (*QuotaState, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing analytics URL: %w", err)
	}
	q := u.Query()
	q.Set("api_context", "buy")
	q.Set("api_name", "browse")
	u.RawQuery = q.Encode()

	var resp rateLimitResponse
	if err := authedGet(ctx, c.hc, c.tokens, u.String(), nil, &resp); err != nil {
		return nil, fmt.Errorf("analytics request: %w", err)
	}

	state, err := findQuota(&resp, browseResource)
	if err != nil {
		return nil, err
	}

	RecordQuota(state)
	for _, s := range c.syncers {
		s.Sync(state)
	}
	return state, nil
}

// findQuota returns the first rate of the named resource.
func findQuota(resp *rateLimitResponse, resource string) (*QuotaState, error) {
	for _, api := range resp.RateLimits {
		for _, res := range api.Resources {
			if res.Name != resource {
				continue
			}
			if len(res.Rates) == 0 {
				return nil, fmt.Errorf("resource %q has no rates", resource)
			}
			r := res.Rates[0]
			reset, err := time.Parse(time.RFC3339, r.Reset)
			if err != nil {
				return nil, fmt.Errorf("parsing reset time %q: %w", r.Reset, err)
			}
			return &QuotaState{
				Count:      r.Count,
				Limit:      r.Limit,
				Remaining:  r.Remaining,
				ResetAt:    reset,
				TimeWindow: time.Duration(r.TimeWindow) * time.Second,
			}, nil
		}
	}
	return nil, fmt.Errorf("resource %q not found in analytics response", resource)
}

// RecordQuota publishes q to the eBay quota gauges.
func RecordQuota(q *QuotaState) {
	if q == nil {
		return
	}
	metrics.EbayRateLimit.Set(float64(q.Limit))
	metrics.EbayRateRemaining.Set(float64(q.Remaining))
	metrics.EbayRateResetTimestamp.Set(float64(q.ResetAt.Unix()))
}
