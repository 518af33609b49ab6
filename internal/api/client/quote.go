package client

import (
	"context"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// RepriceResponse reports the outcome of an on-demand batch.
type RepriceResponse struct {
	Job    string `json:"job"`
	Priced int    `json:"priced"`
}

// Quote prices a single input without storing it.
func (c *Client) Quote(ctx context.Context, in *pricing.Input) (*pricing.Result, error) {
	var res pricing.Result
	if err := c.post(ctx, "/api/v1/quote", in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// QuoteBatch prices several inputs. Results are in input order.
func (c *Client) QuoteBatch(ctx context.Context, ins []pricing.Input) ([]pricing.Result, error) {
	var resp struct {
		Results []pricing.Result `json:"results"`
	}
	body := map[string][]pricing.Input{"items": ins}
	if err := c.post(ctx, "/api/v1/quote/batch", body, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// Reprice runs the "pending" or "refresh" batch on the server.
func (c *Client) Reprice(ctx context.Context, job string) (*RepriceResponse, error) {
	var resp RepriceResponse
	if err := c.post(ctx, "/api/v1/reprice", map[string]string{"job": job}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
