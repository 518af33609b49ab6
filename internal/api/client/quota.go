package client

import (
	"context"
	"time"
)

// UpstreamQuota is eBay's own accounting of the Browse API quota.
type UpstreamQuota struct {
	Count     int64     `json:"count"`
	Limit     int64     `json:"limit"`
	Remaining int64     `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// QuotaResponse is the server's local call budget plus, when eBay is
// configured, the upstream view.
type QuotaResponse struct {
	DailyLimit int64          `json:"daily_limit"`
	DailyUsed  int64          `json:"daily_used"`
	Remaining  int64          `json:"remaining"`
	ResetAt    time.Time      `json:"reset_at"`
	Upstream   *UpstreamQuota `json:"upstream,omitempty"`
}

// Quota fetches the eBay call budget.
func (c *Client) Quota(ctx context.Context) (*QuotaResponse, error) {
	var q QuotaResponse
	if err := c.get(ctx, "/api/v1/quota", &q); err != nil {
		return nil, err
	}
	return &q, nil
}
