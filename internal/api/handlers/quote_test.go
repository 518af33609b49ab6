package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/internal/api/handlers"
	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
)

// cascadeQuoter prices with the default cascade.
type cascadeQuoter struct{}

func (cascadeQuoter) Quote(_ context.Context, in *pricing.Input) pricing.Result {
	return pricing.Compute(in)
}

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		body         map[string]any
		wantStrategy pricing.Strategy
		wantPrice    float64
	}{
		{
			name:         "no signals falls to floor",
			body:         map[string]any{},
			wantStrategy: pricing.StrategyFloor,
			wantPrice:    5,
		},
		{
			name:         "reference price",
			body:         map[string]any{"reference_price": 12.0},
			wantStrategy: pricing.StrategyReference,
			wantPrice:    12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, api := humatest.New(t)
			handlers.RegisterQuoteRoutes(api, handlers.NewQuoteHandler(cascadeQuoter{}))

			resp := api.Post("/api/v1/quote", tt.body)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			var got pricing.Result
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
			assert.Equal(t, tt.wantStrategy, got.Strategy)
			assert.InDelta(t, tt.wantPrice, got.FinalPrice, 0.001)
			assert.NotEmpty(t, got.Notes)
		})
	}
}

func TestQuoteBatch(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterQuoteRoutes(api, handlers.NewQuoteHandler(cascadeQuoter{}))

	resp := api.Post("/api/v1/quote/batch", map[string]any{
		"items": []map[string]any{
			{"reference_price": 12.0},
			{},
		},
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var got struct {
		Results []pricing.Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, pricing.StrategyReference, got.Results[0].Strategy)
	assert.Equal(t, pricing.StrategyFloor, got.Results[1].Strategy)
}

func TestQuoteBatch_TooMany(t *testing.T) {
	t.Parallel()

	_, api := humatest.New(t)
	handlers.RegisterQuoteRoutes(api, handlers.NewQuoteHandler(cascadeQuoter{}))

	items := make([]map[string]any, 501)
	for i := range items {
		items[i] = map[string]any{}
	}

	resp := api.Post("/api/v1/quote/batch", map[string]any{"items": items})
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.True(t, strings.Contains(resp.Body.String(), "too many items"))
}
