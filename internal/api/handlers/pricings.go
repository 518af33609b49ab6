package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/vinyl-pricer/internal/store"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// PricingStore defines the store methods required by the pricings handler.
type PricingStore interface {
	GetPricing(ctx context.Context, id string) (*domain.PricingRecord, error)
	ListPricings(ctx context.Context, q *store.PricingQuery) ([]domain.PricingRecord, int, error)
}

// PricingsHandler serves stored pricing decisions.
type PricingsHandler struct {
	store PricingStore
}

// NewPricingsHandler creates a new PricingsHandler.
func NewPricingsHandler(s PricingStore) *PricingsHandler {
	return &PricingsHandler{store: s}
}

// ListPricingsInput is the input for listing pricing decisions.
type ListPricingsInput struct {
	ItemID   string `query:"item_id"  doc:"Only decisions for this item"`
	Strategy string `query:"strategy" doc:"Only decisions made by this strategy code" enum:"EB1,EBC,EBA,DHIG,DSUG,DMED,DLST,DLOW,REF,CMP,FLR,"`
	Limit    int    `query:"limit"    doc:"Number of results (default 50)"                                                          minimum:"0" maximum:"500"`
	Offset   int    `query:"offset"   doc:"Pagination offset"                                                                       minimum:"0"`
}

// ListPricingsOutput is the response for listing pricing decisions.
type ListPricingsOutput struct {
	Body struct {
		Pricings []domain.PricingRecord `json:"pricings"`
		Total    int                    `json:"total"`
		Limit    int                    `json:"limit"`
		Offset   int                    `json:"offset"`
	}
}

// GetPricingInput identifies a pricing decision by path.
type GetPricingInput struct {
	ID string `path:"id" doc:"Pricing UUID"`
}

// List returns pricing decisions, newest first.
func (h *PricingsHandler) List(ctx context.Context, input *ListPricingsInput) (*ListPricingsOutput, error) {
	q := &store.PricingQuery{
		ItemID:   input.ItemID,
		Strategy: pricing.Strategy(input.Strategy),
		Limit:    input.Limit,
		Offset:   input.Offset,
	}

	recs, total, err := h.store.ListPricings(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing pricings failed: " + err.Error())
	}
	if recs == nil {
		recs = []domain.PricingRecord{}
	}

	resp := &ListPricingsOutput{}
	resp.Body.Pricings = recs
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// Get returns a single pricing decision.
func (h *PricingsHandler) Get(ctx context.Context, input *GetPricingInput) (*PricingOutput, error) {
	rec, err := h.store.GetPricing(ctx, input.ID)
	if err != nil {
		return nil, storeError("pricing", err)
	}
	return &PricingOutput{Body: *rec}, nil
}

// RegisterPricingRoutes registers pricing history endpoints with the Huma API.
func RegisterPricingRoutes(api huma.API, h *PricingsHandler) {
	huma.Register(api, huma.Operation{
		OperationID: "list-pricings",
		Method:      http.MethodGet,
		Path:        "/api/v1/pricings",
		Summary:     "List pricing decisions",
		Description: "Returns stored pricing decisions, newest first.",
		Tags:        []string{"pricing"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-pricing",
		Method:      http.MethodGet,
		Path:        "/api/v1/pricings/{id}",
		Summary:     "Get a pricing decision",
		Tags:        []string{"pricing"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)
}
