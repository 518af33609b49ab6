package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/internal/api/handlers"
	storeMocks "github.com/donaldgifford/vinyl-pricer/internal/store/mocks"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().Summary(mock.Anything).Return(&domain.PricingSummary{
		TotalItems:          3,
		PricedItems:         2,
		PendingItems:        1,
		TotalFinalPrice:     30,
		TotalReferencePrice: 24,
		Difference:          6,
		ByStrategy:          map[pricing.Strategy]int{pricing.StrategyReference: 1, pricing.StrategyFloor: 1},
	}, nil).Once()

	_, api := humatest.New(t)
	handlers.RegisterSummaryRoutes(api, handlers.NewSummaryHandler(ms))

	resp := api.Get("/api/v1/summary")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"difference":6`)
	assert.Contains(t, resp.Body.String(), `"REF":1`)
}

func TestSummary_Error(t *testing.T) {
	t.Parallel()

	ms := storeMocks.NewMockStore(t)
	ms.EXPECT().Summary(mock.Anything).Return(nil, errors.New("db down")).Once()

	_, api := humatest.New(t)
	handlers.RegisterSummaryRoutes(api, handlers.NewSummaryHandler(ms))

	resp := api.Get("/api/v1/summary")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "building summary failed")
}
