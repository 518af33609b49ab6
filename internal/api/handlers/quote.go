package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

const maxQuoteBatch = 500

// Quoter prices an input without persisting anything.
type Quoter interface {
	Quote(ctx context.Context, in *pricing.Input) pricing.Result
}

// QuoteHandler handles stateless pricing requests.
type QuoteHandler struct {
	quoter Quoter
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(q Quoter) *QuoteHandler {
	return &QuoteHandler{quoter: q}
}

// QuoteInput is the request body for a single quote.
type QuoteInput struct {
	Body pricing.Input
}

// QuoteOutput is the response body for a single quote.
type QuoteOutput struct {
	Body pricing.Result
}

// QuoteBatchInput is the request body for a batch quote.
type QuoteBatchInput struct {
	Body struct {
		Items []pricing.Input `json:"items" doc:"Pricing inputs, priced independently"`
	}
}

// QuoteBatchOutput is the response body for a batch quote. Results are in
// request order.
type QuoteBatchOutput struct {
	Body struct {
		Results []pricing.Result `json:"results"`
	}
}

// Quote prices one input.
func (h *QuoteHandler) Quote(ctx context.Context, input *QuoteInput) (*QuoteOutput, error) {
	return &QuoteOutput{Body: h.quoter.Quote(ctx, &input.Body)}, nil
}

// QuoteBatch prices many inputs.
func (h *QuoteHandler) QuoteBatch(ctx context.Context, input *QuoteBatchInput) (*QuoteBatchOutput, error) {
	if len(input.Body.Items) > maxQuoteBatch {
		return nil, huma.Error400BadRequest("too many items in batch")
	}

	resp := &QuoteBatchOutput{}
	resp.Body.Results = make([]pricing.Result, 0, len(input.Body.Items))
	for i := range input.Body.Items {
		resp.Body.Results = append(resp.Body.Results, h.quoter.Quote(ctx, &input.Body.Items[i]))
	}
	return resp, nil
}

// RegisterQuoteRoutes registers quote endpoints with the Huma API.
func RegisterQuoteRoutes(api huma.API, h *QuoteHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "quote",
		Method:      http.MethodPost,
		Path:        "/api/v1/quote",
		Summary:     "Price a record",
		Description: "Runs the pricing cascade on the supplied signals. Nothing is stored.",
		Tags:        []string{"pricing"},
	}, h.Quote)

	huma.Register(api, huma.Operation{
		OperationID: "quote-batch",
		Method:      http.MethodPost,
		Path:        "/api/v1/quote/batch",
		Summary:     "Price several records",
		Description: "Runs the pricing cascade on each input independently. Nothing is stored.",
		Tags:        []string{"pricing"},
		Errors:      []int{http.StatusBadRequest},
	}, h.QuoteBatch)
}
