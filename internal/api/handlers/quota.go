package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/vinyl-pricer/internal/ebay"
)

// QuotaReporter reports the Browse API quota as eBay sees it.
type QuotaReporter interface {
	GetBrowseQuota(ctx context.Context) (*ebay.QuotaState, error)
}

// QuotaHandler provides the eBay API quota status endpoint.
type QuotaHandler struct {
	rl       *ebay.RateLimiter
	upstream QuotaReporter
}

// NewQuotaHandler creates a new QuotaHandler. Either argument may be nil.
func NewQuotaHandler(rl *ebay.RateLimiter, upstream QuotaReporter) *QuotaHandler {
	return &QuotaHandler{rl: rl, upstream: upstream}
}

// UpstreamQuota is the quota reported by the eBay Analytics API.
type UpstreamQuota struct {
	Count     int64     `json:"count"     doc:"Calls counted by eBay in the current window"`
	Limit     int64     `json:"limit"     doc:"Daily call limit granted by eBay"`
	Remaining int64     `json:"remaining" doc:"Calls remaining according to eBay"`
	ResetAt   time.Time `json:"reset_at"  doc:"When eBay resets the quota"`
}

// QuotaOutput is the response body for the quota endpoint.
type QuotaOutput struct {
	Body struct {
		DailyLimit int64          `json:"daily_limit"        example:"5000"                 doc:"Configured daily API call limit"`
		DailyUsed  int64          `json:"daily_used"         example:"142"                  doc:"API calls used in the current 24-hour window"`
		Remaining  int64          `json:"remaining"          example:"4858"                 doc:"API calls remaining in the current window"`
		ResetAt    time.Time      `json:"reset_at"           example:"2025-06-16T14:30:00Z" doc:"When the current 24-hour window expires"`
		Upstream   *UpstreamQuota `json:"upstream,omitempty" doc:"Quota reported by eBay, when available"`
	}
}

// GetQuota returns the local eBay API quota counters and, when an upstream
// reporter is configured, eBay's own view of the quota.
func (h *QuotaHandler) GetQuota(ctx context.Context, _ *struct{}) (*QuotaOutput, error) {
	resp := &QuotaOutput{}
	if h.rl != nil {
		resp.Body.DailyLimit = h.rl.MaxDaily()
		resp.Body.DailyUsed = h.rl.DailyCount()
		resp.Body.Remaining = h.rl.Remaining()
		resp.Body.ResetAt = h.rl.ResetAt()
	}

	if h.upstream != nil {
		q, err := h.upstream.GetBrowseQuota(ctx)
		if err != nil {
			return nil, huma.Error502BadGateway("fetching ebay quota failed: " + err.Error())
		}
		ebay.RecordQuota(q)
		resp.Body.Upstream = &UpstreamQuota{
			Count:     q.Count,
			Limit:     q.Limit,
			Remaining: q.Remaining,
			ResetAt:   q.ResetAt,
		}
	}

	return resp, nil
}

// RegisterQuotaRoutes registers the quota endpoint with the Huma API.
func RegisterQuotaRoutes(api huma.API, h *QuotaHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-quota",
		Method:      http.MethodGet,
		Path:        "/api/v1/quota",
		Summary:     "Get eBay API quota status",
		Description: "Returns the daily API call usage, remaining quota, and window reset time.",
		Tags:        []string{"ebay"},
		Errors:      []int{http.StatusBadGateway},
	}, h.GetQuota)
}
