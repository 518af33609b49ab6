// Package ebay finds comparable active listings for a record through the
// eBay Browse API, within the account's daily call budget.
package ebay

import (
	"context"
)

// SearchRequest is one page of a Browse item_summary search.
type SearchRequest struct {
	Query      string
	CategoryID string
	Limit      int
	Offset     int
	// Sort is passed through verbatim, e.g. "price" or "-price".
	Sort    string
	Filters map[string]string
}

// SearchResponse is one page of hits plus the paging cursor eBay returned.
type SearchResponse struct {
	Items   []ItemSummary
	Total   int
	Offset  int
	Limit   int
	HasMore bool
}

// Searcher runs a single-page listing search.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// TokenProvider hands out a bearer token for the Buy APIs.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}
