package ebay

import (
	"context"
	"fmt"
	"strings"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

const (
	// VinylCategoryID is Music > Vinyl Records.
	VinylCategoryID = "176985"
	// ConditionUsed is the generic Used condition ID.
	ConditionUsed = "3000"
)

// CompsQuery describes the record to find competing listings for.
type CompsQuery struct {
	Artist  string
	Title   string
	Catalog string
}

func (q CompsQuery) text() string {
	parts := make([]string, 0, 3)
	for _, s := range []string{q.Artist, q.Title, q.Catalog} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// CompsFinder finds active competing listings for a record.
type CompsFinder struct {
	paginator    *Paginator
	categoryID   string
	conditionIDs []string
	currency     string
	limit        int
}

// CompsOption configures the CompsFinder.
type CompsOption func(*CompsFinder)

// WithCategory overrides the eBay category searched.
func WithCategory(id string) CompsOption {
	return func(f *CompsFinder) {
		f.categoryID = id
	}
}

// WithConditionIDs restricts results to the given eBay condition IDs.
func WithConditionIDs(ids ...string) CompsOption {
	return func(f *CompsFinder) {
		f.conditionIDs = ids
	}
}

// WithCurrency drops listings priced in any other currency.
func WithCurrency(cur string) CompsOption {
	return func(f *CompsFinder) {
		f.currency = cur
	}
}

// WithResultLimit caps the number of listings returned.
func WithResultLimit(n int) CompsOption {
	return func(f *CompsFinder) {
		f.limit = n
	}
}

// NewCompsFinder creates a CompsFinder that searches through p.
func NewCompsFinder(p *Paginator, opts ...CompsOption) *CompsFinder {
	f := &CompsFinder{
		paginator:    p,
		categoryID:   VinylCategoryID,
		conditionIDs: []string{ConditionUsed},
		currency:     "USD",
		limit:        50,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SearchRequest builds the Browse API request for q.
func (f *CompsFinder) SearchRequest(q CompsQuery) SearchRequest {
	req := SearchRequest{
		Query:      q.text(),
		CategoryID: f.categoryID,
	}
	if len(f.conditionIDs) > 0 {
		req.Filters = map[string]string{
			"filter": "conditionIds:{" + strings.Join(f.conditionIDs, "|") + "}",
		}
	}
	return req
}

// ActiveListings returns competing active listings for q. Items that fail
// conversion are skipped. When a later page fails, the listings gathered so
// far are returned together with the error.
func (f *CompsFinder) ActiveListings(ctx context.Context, q CompsQuery) ([]pricing.Listing, error) {
	req := f.SearchRequest(q)
	if req.Query == "" {
		return nil, nil
	}

	res, err := f.paginator.Collect(ctx, req, f.limit)
	if err != nil && len(res.Items) == 0 {
		return nil, fmt.Errorf("searching active listings: %w", err)
	}
	return ToListings(res.Items, f.currency), err
}
