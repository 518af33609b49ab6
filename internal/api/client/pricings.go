package client

import (
	"context"
	"net/url"
	"strconv"

	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// ListPricingsParams filters ListPricings.
type ListPricingsParams struct {
	ItemID   string
	Strategy string
	Limit    int
	Offset   int
}

// PricingsResponse is a page of pricing decisions.
type PricingsResponse struct {
	Pricings []domain.PricingRecord `json:"pricings"`
	Total    int                    `json:"total"`
	Limit    int                    `json:"limit"`
	Offset   int                    `json:"offset"`
}

// ListPricings returns stored pricing decisions, newest first.
func (c *Client) ListPricings(ctx context.Context, p *ListPricingsParams) (*PricingsResponse, error) {
	q := url.Values{}
	if p != nil {
		if p.ItemID != "" {
			q.Set("item_id", p.ItemID)
		}
		if p.Strategy != "" {
			q.Set("strategy", p.Strategy)
		}
		if p.Limit > 0 {
			q.Set("limit", strconv.Itoa(p.Limit))
		}
		if p.Offset > 0 {
			q.Set("offset", strconv.Itoa(p.Offset))
		}
	}

	path := "/api/v1/pricings"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp PricingsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetPricing returns one pricing decision.
func (c *Client) GetPricing(ctx context.Context, id string) (*domain.PricingRecord, error) {
	var rec domain.PricingRecord
	if err := c.get(ctx, "/api/v1/pricings/"+url.PathEscape(id), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Summary returns the inventory pricing summary.
func (c *Client) Summary(ctx context.Context) (*domain.PricingSummary, error) {
	var sum domain.PricingSummary
	if err := c.get(ctx, "/api/v1/summary", &sum); err != nil {
		return nil, err
	}
	return &sum, nil
}
