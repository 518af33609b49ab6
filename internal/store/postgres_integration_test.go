//go:build integration

package store_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/vinyl-pricer/internal/store"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("vpr_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func testItem() *domain.Item {
	return &domain.Item{
		Artist:          "Miles Davis",
		Title:           "Kind of Blue",
		Label:           "Columbia",
		Catalog:         "CS 8163",
		Country:         "US",
		Year:            1959,
		Format:          "LP",
		MediaCondition:  "VG+",
		SleeveCondition: "VG",
		ReferencePrice:  pricing.Price(24.00),
		SoldComps: []pricing.Listing{
			{Price: 30, ShippingCost: 4, ConditionRaw: "Near Mint (NM or M-)"},
		},
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_Migrate_Idempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_ItemCRUD(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	item := testItem()
	require.NoError(t, s.CreateItem(ctx, item))
	require.NotEmpty(t, item.ID)
	assert.Equal(t, domain.ItemPending, item.Status)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kind of Blue", got.Title)
	assert.Equal(t, 1959, got.Year)
	require.NotNil(t, got.ReferencePrice)
	assert.InDelta(t, 24.00, *got.ReferencePrice, 0.001)
	assert.Nil(t, got.ComparablePrice)
	require.Len(t, got.SoldComps, 1)
	assert.InDelta(t, 30.0, got.SoldComps[0].Price, 0.001)

	got.MediaCondition = "NM"
	require.NoError(t, s.UpdateItem(ctx, got))

	updated, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "NM", updated.MediaCondition)

	require.NoError(t, s.SetDiscogsRelease(ctx, item.ID, 1234))
	updated, err = s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.DiscogsReleaseID)
	assert.Equal(t, 1234, *updated.DiscogsReleaseID)

	require.NoError(t, s.DeleteItem(ctx, item.ID))
	_, err = s.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteItem(ctx, item.ID), store.ErrNotFound)
}

func TestPostgresStore_ListItems(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	for _, title := range []string{"Kind of Blue", "Blue Train", "Giant Steps"} {
		item := testItem()
		item.Title = title
		require.NoError(t, s.CreateItem(ctx, item))
	}

	items, total, err := s.ListItems(ctx, &store.ItemQuery{Search: "blue"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)

	items, total, err = s.ListItems(ctx, &store.ItemQuery{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 1)
}

func TestPostgresStore_PricingLifecycle(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	item := testItem()
	require.NoError(t, s.CreateItem(ctx, item))

	pending, err := s.ListPendingItems(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	signals, err := json.Marshal(item.BaseInput())
	require.NoError(t, err)

	rec := &domain.PricingRecord{
		ItemID:     item.ID,
		FinalPrice: 27.00,
		Strategy:   pricing.StrategySoldSingle,
		Notes:      "EB1 - single sold eBay listing",
		Signals:    signals,
	}
	require.NoError(t, s.SavePricing(ctx, rec))
	require.NotEmpty(t, rec.ID)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemPriced, got.Status)
	assert.Equal(t, rec.ID, got.LastPricingID)
	require.NotNil(t, got.LastPricedAt)

	pending, err = s.ListPendingItems(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	stored, err := s.GetPricing(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, pricing.StrategySoldSingle, stored.Strategy)
	assert.InDelta(t, 27.00, stored.FinalPrice, 0.001)
	assert.JSONEq(t, string(signals), string(stored.Signals))

	recs, total, err := s.ListPricings(ctx, &store.PricingQuery{ItemID: item.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, recs, 1)

	stale, err := s.ListStaleItems(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	stale, err = s.ListStaleItems(ctx, time.Hour, 10)
	require.NoError(t, err)
	assert.Empty(t, stale)

	_, err = s.GetPricing(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_Summary(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	priced := testItem()
	require.NoError(t, s.CreateItem(ctx, priced))
	require.NoError(t, s.SavePricing(ctx, &domain.PricingRecord{
		ItemID:     priced.ID,
		FinalPrice: 30.00,
		Strategy:   pricing.StrategyReference,
	}))

	failed := testItem()
	require.NoError(t, s.CreateItem(ctx, failed))
	require.NoError(t, s.MarkItemFailed(ctx, failed.ID))

	require.NoError(t, s.CreateItem(ctx, testItem()))

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalItems)
	assert.Equal(t, 1, sum.PricedItems)
	assert.Equal(t, 1, sum.PendingItems)
	assert.Equal(t, 1, sum.FailedItems)
	assert.InDelta(t, 30.00, sum.TotalFinalPrice, 0.001)
	assert.InDelta(t, 24.00, sum.TotalReferencePrice, 0.001)
	assert.InDelta(t, 6.00, sum.Difference, 0.001)
	assert.Equal(t, map[pricing.Strategy]int{pricing.StrategyReference: 1}, sum.ByStrategy)
}

func TestPostgresStore_Summary_TotalsCoverSameItems(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	kept := testItem()
	require.NoError(t, s.CreateItem(ctx, kept))
	require.NoError(t, s.SavePricing(ctx, &domain.PricingRecord{
		ItemID:     kept.ID,
		FinalPrice: 30.00,
		Strategy:   pricing.StrategySoldSingle,
	}))

	// Edited after pricing: back to pending with a new reference, but its
	// latest pricing still counts.
	edited := testItem()
	require.NoError(t, s.CreateItem(ctx, edited))
	require.NoError(t, s.SavePricing(ctx, &domain.PricingRecord{
		ItemID:     edited.ID,
		FinalPrice: 20.00,
		Strategy:   pricing.StrategyDiscogsLow,
	}))
	edited.ReferencePrice = pricing.Price(18.00)
	require.NoError(t, s.UpdateItem(ctx, edited))

	// Never priced: its reference is not part of either total.
	unpriced := testItem()
	unpriced.ReferencePrice = pricing.Price(500.00)
	require.NoError(t, s.CreateItem(ctx, unpriced))

	sum, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalItems)
	assert.Equal(t, 1, sum.PricedItems)
	assert.Equal(t, 2, sum.PendingItems)
	assert.InDelta(t, 50.00, sum.TotalFinalPrice, 0.001)
	assert.InDelta(t, 42.00, sum.TotalReferencePrice, 0.001)
	assert.InDelta(t, 8.00, sum.Difference, 0.001)
	assert.Equal(t, map[pricing.Strategy]int{
		pricing.StrategySoldSingle: 1,
		pricing.StrategyDiscogsLow: 1,
	}, sum.ByStrategy)
}

func TestPostgresStore_JobRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	id, err := s.InsertJobRun(ctx, "price_pending")
	require.NoError(t, err)
	require.NoError(t, s.CompleteJobRun(ctx, id, "succeeded", "", 4))

	_, err = s.InsertJobRun(ctx, "refresh_stale")
	require.NoError(t, err)

	runs, err := s.ListJobRuns(ctx, "price_pending", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "succeeded", runs[0].Status)
	require.NotNil(t, runs[0].RowsAffected)
	assert.Equal(t, 4, *runs[0].RowsAffected)

	latest, err := s.ListLatestJobRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 2)

	crashed, err := s.RecoverStaleJobRuns(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, crashed)
}
