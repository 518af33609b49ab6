package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/donaldgifford/vinyl-pricer/internal/store"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// ItemStore defines the store methods required by the items handler.
type ItemStore interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	ListItems(ctx context.Context, q *store.ItemQuery) ([]domain.Item, int, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// ItemPricer prices and persists a single item.
type ItemPricer interface {
	PriceItem(ctx context.Context, item *domain.Item) (*domain.PricingRecord, error)
}

// ItemsHandler handles item CRUD and on-demand pricing.
type ItemsHandler struct {
	store  ItemStore
	pricer ItemPricer
}

// NewItemsHandler creates a new ItemsHandler.
func NewItemsHandler(s ItemStore, p ItemPricer) *ItemsHandler {
	return &ItemsHandler{store: s, pricer: p}
}

// --- Input/Output types ---

// ItemFields are the operator-supplied fields of an item.
type ItemFields struct {
	Artist          string            `json:"artist,omitempty"             doc:"Artist name"`
	Title           string            `json:"title,omitempty"              doc:"Release title"`
	Label           string            `json:"label,omitempty"              doc:"Record label"`
	Catalog         string            `json:"catalog,omitempty"            doc:"Catalog number"`
	Country         string            `json:"country,omitempty"            doc:"Country of release"`
	Year            int               `json:"year,omitempty"               doc:"Release year"                         minimum:"0"`
	Format          string            `json:"format,omitempty"             doc:"Format, e.g. LP or 7in"`
	MediaCondition  string            `json:"media_condition,omitempty"    doc:"Media grade, e.g. VG+"`
	SleeveCondition string            `json:"sleeve_condition,omitempty"   doc:"Sleeve grade"`
	ReferencePrice  *float64          `json:"reference_price,omitempty"    doc:"Human-entered reference price"`
	ComparablePrice *float64          `json:"comparable_price,omitempty"   doc:"Comparable value, scaled x4 when used"`
	ReleaseID       *int              `json:"discogs_release_id,omitempty" doc:"Known Discogs release ID"`
	SoldComps       []pricing.Listing `json:"sold_comps,omitempty"         doc:"Operator-supplied sold comparables"`
}

func (f *ItemFields) validate() error {
	if strings.TrimSpace(f.Artist) == "" && strings.TrimSpace(f.Title) == "" {
		return huma.Error400BadRequest("artist or title is required")
	}
	return nil
}

func (f *ItemFields) apply(item *domain.Item) {
	item.Artist = strings.TrimSpace(f.Artist)
	item.Title = strings.TrimSpace(f.Title)
	item.Label = f.Label
	item.Catalog = f.Catalog
	item.Country = f.Country
	item.Year = f.Year
	item.Format = f.Format
	item.MediaCondition = f.MediaCondition
	item.SleeveCondition = f.SleeveCondition
	item.ReferencePrice = f.ReferencePrice
	item.ComparablePrice = f.ComparablePrice
	item.DiscogsReleaseID = f.ReleaseID
	item.SoldComps = f.SoldComps
}

// CreateItemInput is the request body for creating an item.
type CreateItemInput struct {
	Body ItemFields
}

// ItemOutput is the response for a single item.
type ItemOutput struct {
	Body domain.Item
}

// ItemIDInput identifies an item by path.
type ItemIDInput struct {
	ID string `path:"id" doc:"Item UUID"`
}

// UpdateItemInput replaces an item's fields.
type UpdateItemInput struct {
	ID   string `path:"id" doc:"Item UUID"`
	Body ItemFields
}

// ListItemsInput is the input for listing items.
type ListItemsInput struct {
	Status string `query:"status" doc:"Filter by pipeline status"                enum:"pending,priced,failed,"`
	Search string `query:"q"      doc:"Match artist, title or catalog number"`
	Limit  int    `query:"limit"  doc:"Number of results (default 50)"                                      minimum:"0" maximum:"500"`
	Offset int    `query:"offset" doc:"Pagination offset"                                                   minimum:"0"`
}

// ListItemsOutput is the response for listing items.
type ListItemsOutput struct {
	Body struct {
		Items  []domain.Item `json:"items"`
		Total  int           `json:"total"`
		Limit  int           `json:"limit"`
		Offset int           `json:"offset"`
	}
}

// PricingOutput is the response for a single pricing decision.
type PricingOutput struct {
	Body domain.PricingRecord
}

// --- Handlers ---

// Create stores a new pending item.
func (h *ItemsHandler) Create(ctx context.Context, input *CreateItemInput) (*ItemOutput, error) {
	if err := input.Body.validate(); err != nil {
		return nil, err
	}

	var item domain.Item
	input.Body.apply(&item)
	if err := h.store.CreateItem(ctx, &item); err != nil {
		return nil, huma.Error500InternalServerError("creating item failed: " + err.Error())
	}
	return &ItemOutput{Body: item}, nil
}

// Get returns a single item.
func (h *ItemsHandler) Get(ctx context.Context, input *ItemIDInput) (*ItemOutput, error) {
	item, err := h.store.GetItem(ctx, input.ID)
	if err != nil {
		return nil, storeError("item", err)
	}
	return &ItemOutput{Body: *item}, nil
}

// List returns a filtered page of items.
func (h *ItemsHandler) List(ctx context.Context, input *ListItemsInput) (*ListItemsOutput, error) {
	q := &store.ItemQuery{
		Status: domain.ItemStatus(input.Status),
		Search: input.Search,
		Limit:  input.Limit,
		Offset: input.Offset,
	}

	items, total, err := h.store.ListItems(ctx, q)
	if err != nil {
		return nil, huma.Error500InternalServerError("listing items failed: " + err.Error())
	}
	if items == nil {
		items = []domain.Item{}
	}

	resp := &ListItemsOutput{}
	resp.Body.Items = items
	resp.Body.Total = total
	resp.Body.Limit = q.Limit
	resp.Body.Offset = q.Offset
	return resp, nil
}

// Update replaces an item's fields and returns it to pending.
func (h *ItemsHandler) Update(ctx context.Context, input *UpdateItemInput) (*ItemOutput, error) {
	if err := input.Body.validate(); err != nil {
		return nil, err
	}

	item, err := h.store.GetItem(ctx, input.ID)
	if err != nil {
		return nil, storeError("item", err)
	}
	input.Body.apply(item)

	if err := h.store.UpdateItem(ctx, item); err != nil {
		return nil, storeError("item", err)
	}
	return &ItemOutput{Body: *item}, nil
}

// Delete removes an item and its pricing history.
func (h *ItemsHandler) Delete(ctx context.Context, input *ItemIDInput) (*struct{}, error) {
	if err := h.store.DeleteItem(ctx, input.ID); err != nil {
		return nil, storeError("item", err)
	}
	return nil, nil
}

// Price gathers signals for the item, prices it and stores the decision.
func (h *ItemsHandler) Price(ctx context.Context, input *ItemIDInput) (*PricingOutput, error) {
	item, err := h.store.GetItem(ctx, input.ID)
	if err != nil {
		return nil, storeError("item", err)
	}

	rec, err := h.pricer.PriceItem(ctx, item)
	if err != nil {
		return nil, huma.Error500InternalServerError("pricing item failed: " + err.Error())
	}
	return &PricingOutput{Body: *rec}, nil
}

// storeError maps a store error onto an HTTP error.
func storeError(what string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return huma.Error404NotFound(what + " not found")
	}
	return huma.Error500InternalServerError(what + " lookup failed: " + err.Error())
}

// RegisterItemRoutes registers item endpoints with the Huma API.
func RegisterItemRoutes(api huma.API, h *ItemsHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-item",
		Method:        http.MethodPost,
		Path:          "/api/v1/items",
		Summary:       "Create an item",
		Description:   "Stores a record awaiting a price. It is priced by the next pending run.",
		Tags:          []string{"items"},
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, h.Create)

	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/api/v1/items",
		Summary:     "List items",
		Description: "Returns items with optional status and text filters.",
		Tags:        []string{"items"},
	}, h.List)

	huma.Register(api, huma.Operation{
		OperationID: "get-item",
		Method:      http.MethodGet,
		Path:        "/api/v1/items/{id}",
		Summary:     "Get an item",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusNotFound},
	}, h.Get)

	huma.Register(api, huma.Operation{
		OperationID: "update-item",
		Method:      http.MethodPut,
		Path:        "/api/v1/items/{id}",
		Summary:     "Update an item",
		Description: "Replaces the item's fields and returns it to pending.",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound},
	}, h.Update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-item",
		Method:        http.MethodDelete,
		Path:          "/api/v1/items/{id}",
		Summary:       "Delete an item",
		Tags:          []string{"items"},
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, h.Delete)

	huma.Register(api, huma.Operation{
		OperationID: "price-item",
		Method:      http.MethodPost,
		Path:        "/api/v1/items/{id}/price",
		Summary:     "Price an item now",
		Description: "Gathers market signals, prices the item and stores the decision.",
		Tags:        []string{"items"},
		Errors:      []int{http.StatusNotFound, http.StatusInternalServerError},
	}, h.Price)
}
