package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// SummaryProvider aggregates the latest pricing of every item.
type SummaryProvider interface {
	Summary(ctx context.Context) (*domain.PricingSummary, error)
}

// SummaryHandler serves the inventory pricing summary.
type SummaryHandler struct {
	store SummaryProvider
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(s SummaryProvider) *SummaryHandler {
	return &SummaryHandler{store: s}
}

// SummaryOutput is the response for the pricing summary.
type SummaryOutput struct {
	Body domain.PricingSummary
}

// Summary returns totals, the reference difference and strategy counts.
func (h *SummaryHandler) Summary(ctx context.Context, _ *struct{}) (*SummaryOutput, error) {
	sum, err := h.store.Summary(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("building summary failed: " + err.Error())
	}
	return &SummaryOutput{Body: *sum}, nil
}

// RegisterSummaryRoutes registers the summary endpoint with the Huma API.
func RegisterSummaryRoutes(api huma.API, h *SummaryHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/api/v1/summary",
		Summary:     "Pricing summary",
		Description: "Totals of the latest pricing per item compared with the reference prices.",
		Tags:        []string{"pricing"},
		Errors:      []int{http.StatusInternalServerError},
	}, h.Summary)
}
