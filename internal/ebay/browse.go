package ebay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/donaldgifford/vinyl-pricer/internal/metrics"
)

const (
	defaultBrowseURL   = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	defaultMarketplace = "EBAY_US"
	defaultPageSize    = 50
)

// BrowseClient implements Searcher using the eBay Browse API.
type BrowseClient struct {
	tokens      TokenProvider
	endpoint    string
	marketplace string
	hc          *http.Client
	limiter     *RateLimiter
}

// BrowseOption configures the BrowseClient.
type BrowseOption func(*BrowseClient)

// WithBrowseURL overrides the default Browse API endpoint.
func WithBrowseURL(u string) BrowseOption {
	return func(c *BrowseClient) {
		if u != "" {
			c.endpoint = u
		}
	}
}

// WithMarketplace overrides the default marketplace.
func WithMarketplace(m string) BrowseOption {
	return func(c *BrowseClient) {
		if m != "" {
			c.marketplace = m
		}
	}
}

// WithBrowseHTTPClient overrides the default HTTP client.
func WithBrowseHTTPClient(hc *http.Client) BrowseOption {
	return func(c *BrowseClient) {
		c.hc = hc
	}
}

// WithRateLimiter makes every Search pass through r first.
func WithRateLimiter(r *RateLimiter) BrowseOption {
	return func(c *BrowseClient) {
		c.limiter = r
	}
}

// NewBrowseClient creates a new eBay Browse API client.
func NewBrowseClient(tokens TokenProvider, opts ...BrowseOption) *BrowseClient {
	c := &BrowseClient{
		tokens:      tokens,
		endpoint:    defaultBrowseURL,
		marketplace: defaultMarketplace,
		hc:          &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type browseAPIResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
	Total         int           `json:"total"`
	Offset        int           `json:"offset"`
	Limit         int           `json:"limit"`
	Next          string        `json:"next"`
}

// Search implements Searcher by querying the Browse API.
func (c *BrowseClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	if err := c.admit(ctx); err != nil {
		return nil, err
	}

	header := http.Header{}
	header.Set("X-EBAY-C-MARKETPLACE-ID", c.marketplace)

	var page browseAPIResponse
	if err := authedGet(ctx, c.hc, c.tokens, c.searchURL(req), header, &page); err != nil {
		return nil, fmt.Errorf("browse search %q: %w", req.Query, err)
	}

	return &SearchResponse{
		Items:   page.ItemSummaries,
		Total:   page.Total,
		Offset:  page.Offset,
		Limit:   page.Limit,
		HasMore: page.Next != "",
	}, nil
}

// admit charges one call against the limiter and publishes usage.
func (c *BrowseClient) admit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(err, ErrDailyLimitReached) {
			metrics.EbayDailyLimitHits.Inc()
		}
		return fmt.Errorf("rate limit: %w", err)
	}
	metrics.EbayAPICallsTotal.Inc()
	metrics.EbayDailyUsage.Set(float64(c.limiter.DailyCount()))
	return nil
}

// searchURL encodes req. Filters are written in key order so URLs are
// stable.
func (c *BrowseClient) searchURL(req SearchRequest) string {
	params := url.Values{}
	params.Set("q", req.Query)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	params.Set("limit", strconv.Itoa(limit))

	if req.CategoryID != "" {
		params.Set("category_ids", req.CategoryID)
	}
	if req.Offset > 0 {
		params.Set("offset", strconv.Itoa(req.Offset))
	}
	if req.Sort != "" {
		params.Set("sort", req.Sort)
	}

	keys := make([]string, 0, len(req.Filters))
	for k := range req.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := req.Filters[k]; v != "" {
			params.Set(k, v)
		}
	}

	return c.endpoint + "?" + params.Encode()
}
