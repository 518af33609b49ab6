// Package musicbrainz provides a MusicBrainz release search client used to
// find an item's Discogs release through MusicBrainz URL relationships.
package musicbrainz

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no release matches or an MBID is unknown.
var ErrNotFound = errors.New("musicbrainz: not found")

// SearchRequest identifies a release by its printed details. Empty fields
// are left out of the query.
type SearchRequest struct {
	Artist  string
	Title   string
	Catalog string
	Label   string
	Country string
	Year    int
	Format  string
}

// Client defines the MusicBrainz operations the pricing pipeline needs.
type Client interface {
	// SearchReleases returns candidate releases, best scored first.
	SearchReleases(ctx context.Context, req SearchRequest) ([]Release, error)
	// LookupRelease fetches one release with its URL relationships.
	LookupRelease(ctx context.Context, mbid string) (*Release, error)
}
