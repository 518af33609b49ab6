// Package discogs provides a Discogs catalog and marketplace API client
// abstracted behind an interface for testability.
package discogs

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a release or its marketplace data does not
// exist.
var ErrNotFound = errors.New("discogs: not found")

// SearchRequest identifies a release by its printed details.
type SearchRequest struct {
	Artist  string
	Title   string
	Country string
	Catalog string
	Year    int
}

// Client defines the Discogs operations the pricing pipeline needs.
type Client interface {
	// SearchRelease returns the best matching release, or ErrNotFound.
	SearchRelease(ctx context.Context, req SearchRequest) (*Release, error)
	MarketplaceStats(ctx context.Context, releaseID int) (*MarketplaceStats, error)
	PriceSuggestions(ctx context.Context, releaseID int) (PriceSuggestions, error)
}
