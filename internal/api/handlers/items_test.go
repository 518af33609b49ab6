package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/internal/api/handlers"
	"github.com/donaldgifford/vinyl-pricer/internal/store"
	storeMocks "github.com/donaldgifford/vinyl-pricer/internal/store/mocks"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// stubPricer returns a fixed record or error.
type stubPricer struct {
	rec *domain.PricingRecord
	err error
}

func (s *stubPricer) PriceItem(_ context.Context, item *domain.Item) (*domain.PricingRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec := *s.rec
	rec.ItemID = item.ID
	return &rec, nil
}

func sampleItem() *domain.Item {
	ref := 12.0
	return &domain.Item{
		ID:             "item-1",
		Artist:         "Can",
		Title:          "Tago Mago",
		Format:         "LP",
		MediaCondition: "VG+",
		ReferencePrice: &ref,
		Status:         domain.ItemPending,
	}
}

func newItemsAPI(t *testing.T, ms *storeMocks.MockStore, p handlers.ItemPricer) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	handlers.RegisterItemRoutes(api, handlers.NewItemsHandler(ms, p))
	return api
}

func TestCreateItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     map[string]any
		setup    func(ms *storeMocks.MockStore)
		wantCode int
		wantBody string
	}{
		{
			name: "created",
			body: map[string]any{"artist": " Can ", "title": "Tago Mago", "reference_price": 12.0},
			setup: func(ms *storeMocks.MockStore) {
				ms.EXPECT().CreateItem(mock.Anything, mock.MatchedBy(func(i *domain.Item) bool {
					return i.Artist == "Can" && i.ReferencePrice != nil && *i.ReferencePrice == 12
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*domain.Item).ID = "item-1"
				}).Return(nil).Once()
			},
			wantCode: http.StatusCreated,
			wantBody: "item-1",
		},
		{
			name:     "artist and title missing",
			body:     map[string]any{"label": "United Artists"},
			setup:    func(_ *storeMocks.MockStore) {},
			wantCode: http.StatusBadRequest,
			wantBody: "artist or title is required",
		},
		{
			name: "store error",
			body: map[string]any{"title": "Tago Mago"},
			setup: func(ms *storeMocks.MockStore) {
				ms.EXPECT().CreateItem(mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
			},
			wantCode: http.StatusInternalServerError,
			wantBody: "creating item failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			tt.setup(ms)
			api := newItemsAPI(t, ms, &stubPricer{})

			resp := api.Post("/api/v1/items", tt.body)
			require.Equal(t, tt.wantCode, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestGetItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		item     *domain.Item
		err      error
		wantCode int
		wantBody string
	}{
		{name: "found", item: sampleItem(), wantCode: http.StatusOK, wantBody: "Tago Mago"},
		{name: "not found", err: store.ErrNotFound, wantCode: http.StatusNotFound, wantBody: "item not found"},
		{name: "store error", err: errors.New("db down"), wantCode: http.StatusInternalServerError, wantBody: "item lookup failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			ms.EXPECT().GetItem(mock.Anything, "item-1").Return(tt.item, tt.err).Once()
			api := newItemsAPI(t, ms, &stubPricer{})

			resp := api.Get("/api/v1/items/item-1")
			require.Equal(t, tt.wantCode, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}

func TestListItems(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().ListItems(mock.Anything, mock.MatchedBy(func(q *store.ItemQuery) bool {
		return q.Status == domain.ItemPending && q.Search == "can" && q.Limit == 10
	})).Return([]domain.Item{*sampleItem()}, 1, nil).Once()
	api := newItemsAPI(t, ms, &stubPricer{})

	resp := api.Get("/api/v1/items?status=pending&q=can&limit=10")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"total":1`)
	assert.Contains(t, resp.Body.String(), "Tago Mago")
}

func TestListItems_Empty(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().ListItems(mock.Anything, mock.Anything).Return(nil, 0, nil).Once()
	api := newItemsAPI(t, ms, &stubPricer{})

	resp := api.Get("/api/v1/items")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"items":[]`)
}

func TestUpdateItem(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().GetItem(mock.Anything, "item-1").Return(sampleItem(), nil).Once()
	ms.EXPECT().UpdateItem(mock.Anything, mock.MatchedBy(func(i *domain.Item) bool {
		return i.ID == "item-1" && i.MediaCondition == "NM"
	})).Return(nil).Once()
	api := newItemsAPI(t, ms, &stubPricer{})

	resp := api.Put("/api/v1/items/item-1", map[string]any{
		"artist":          "Can",
		"title":           "Tago Mago",
		"media_condition": "NM",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"media_condition":"NM"`)
}

func TestUpdateItem_NotFound(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().GetItem(mock.Anything, "missing").Return(nil, store.ErrNotFound).Once()
	api := newItemsAPI(t, ms, &stubPricer{})

	resp := api.Put("/api/v1/items/missing", map[string]any{"title": "x"})
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "deleted", wantCode: http.StatusNoContent},
		{name: "not found", err: store.ErrNotFound, wantCode: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			ms.EXPECT().DeleteItem(mock.Anything, "item-1").Return(tt.err).Once()
			api := newItemsAPI(t, ms, &stubPricer{})

			resp := api.Delete("/api/v1/items/item-1")
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestPriceItem(t *testing.T) {
	t.Parallel()

	rec := &domain.PricingRecord{
		ID:         "pricing-1",
		FinalPrice: 12,
		Strategy:   pricing.StrategyReference,
		Notes:      "REF - Spreadsheet reference",
	}

	tests := []struct {
		name     string
		getErr   error
		pricer   *stubPricer
		wantCode int
		wantBody string
	}{
		{
			name:     "priced",
			pricer:   &stubPricer{rec: rec},
			wantCode: http.StatusOK,
			wantBody: `"strategy_code":"REF"`,
		},
		{
			name:     "item not found",
			getErr:   store.ErrNotFound,
			pricer:   &stubPricer{rec: rec},
			wantCode: http.StatusNotFound,
			wantBody: "item not found",
		},
		{
			name:     "pricing fails",
			pricer:   &stubPricer{err: errors.New("saving pricing: boom")},
			wantCode: http.StatusInternalServerError,
			wantBody: "pricing item failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ms := storeMocks.NewMockStore(t)
			var item *domain.Item
			if tt.getErr == nil {
				item = sampleItem()
			}
			ms.EXPECT().GetItem(mock.Anything, "item-1").Return(item, tt.getErr).Once()
			api := newItemsAPI(t, ms, tt.pricer)

			resp := api.Post("/api/v1/items/item-1/price")
			require.Equal(t, tt.wantCode, resp.Code, resp.Body.String())
			assert.Contains(t, resp.Body.String(), tt.wantBody)
		})
	}
}
