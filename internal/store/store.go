// Package store persists items, pricing decisions and job runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ItemQuery filters and paginates item listings.
type ItemQuery struct {
	Status domain.ItemStatus
	Search string
	Limit  int
	Offset int
}

// PricingQuery filters and paginates pricing history.
type PricingQuery struct {
	ItemID   string
	Strategy pricing.Strategy
	Limit    int
	Offset   int
}

// Store defines the persistence interface for the pricer.
type Store interface {
	// Items
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	ListItems(ctx context.Context, q *ItemQuery) ([]domain.Item, int, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, id string) error
	ListPendingItems(ctx context.Context, limit int) ([]domain.Item, error)
	ListStaleItems(ctx context.Context, olderThan time.Duration, limit int) ([]domain.Item, error)
	SetDiscogsRelease(ctx context.Context, itemID string, releaseID int) error
	MarkItemFailed(ctx context.Context, itemID string) error

	// Pricings
	SavePricing(ctx context.Context, rec *domain.PricingRecord) error
	GetPricing(ctx context.Context, id string) (*domain.PricingRecord, error)
	ListPricings(ctx context.Context, q *PricingQuery) ([]domain.PricingRecord, int, error)
	Summary(ctx context.Context) (*domain.PricingSummary, error)

	// Scheduler
	InsertJobRun(ctx context.Context, jobName string) (id string, err error)
	CompleteJobRun(ctx context.Context, id string, status string, errText string, rowsAffected int) error
	ListJobRuns(ctx context.Context, jobName string, limit int) ([]domain.JobRun, error)
	ListLatestJobRuns(ctx context.Context) ([]domain.JobRun, error)
	RecoverStaleJobRuns(ctx context.Context, olderThan time.Duration) (int, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
