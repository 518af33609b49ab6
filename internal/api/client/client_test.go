package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

func jsonServer(t *testing.T, check func(r *http.Request), status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		check(r)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_ConnectionRefused(t *testing.T) {
	t.Parallel()

	c := New("http://127.0.0.1:1") // nothing listening
	_, err := c.Summary(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerDown)
}

func TestClient_HTTPError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		status       int
		body         string
		wantDetail   string
		wantNotFound bool
	}{
		{
			name:       "plain body",
			status:     http.StatusInternalServerError,
			body:       `oops`,
			wantDetail: "oops",
		},
		{
			name:         "problem body",
			status:       http.StatusNotFound,
			body:         `{"title":"Not Found","status":404,"detail":"item not found"}`,
			wantDetail:   "item not found",
			wantNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetItem(context.Background(), "item-1")
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.wantNotFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestClient_CreateItem(t *testing.T) {
	t.Parallel()

	ref := 12.0
	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/items", r.URL.Path)

		var body ItemRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Can", body.Artist)
		if assert.NotNil(t, body.ReferencePrice) {
			assert.InDelta(t, 12.0, *body.ReferencePrice, 0.001)
		}
	}, http.StatusCreated, domain.Item{ID: "item-1", Artist: "Can", Status: domain.ItemPending})

	item, err := New(srv.URL).CreateItem(context.Background(), &ItemRequest{
		Artist:         "Can",
		Title:          "Tago Mago",
		ReferencePrice: &ref,
	})
	require.NoError(t, err)
	assert.Equal(t, "item-1", item.ID)
	assert.Equal(t, domain.ItemPending, item.Status)
}

func TestClient_ListItems(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/items", r.URL.Path)
		assert.Equal(t, "failed", r.URL.Query().Get("status"))
		assert.Equal(t, "can", r.URL.Query().Get("q"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("offset"))
	}, http.StatusOK, ItemsResponse{Items: []domain.Item{{ID: "item-1"}}, Total: 1, Limit: 10})

	resp, err := New(srv.URL).ListItems(context.Background(), &ListItemsParams{
		Status: "failed",
		Search: "can",
		Limit:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Len(t, resp.Items, 1)
}

func TestClient_DeleteItem(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/items/item-1", r.URL.Path)
	}, http.StatusNoContent, nil)

	require.NoError(t, New(srv.URL).DeleteItem(context.Background(), "item-1"))
}

func TestClient_PriceItem(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/items/item-1/price", r.URL.Path)
	}, http.StatusOK, domain.PricingRecord{
		ID:         "pricing-1",
		ItemID:     "item-1",
		FinalPrice: 18,
		Strategy:   pricing.StrategySoldSingle,
	})

	rec, err := New(srv.URL).PriceItem(context.Background(), "item-1")
	require.NoError(t, err)
	assert.Equal(t, pricing.StrategySoldSingle, rec.Strategy)
	assert.InDelta(t, 18.0, rec.FinalPrice, 0.001)
}

func TestClient_ListPricings(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/pricings", r.URL.Path)
		assert.Equal(t, "REF", r.URL.Query().Get("strategy"))
	}, http.StatusOK, PricingsResponse{Pricings: []domain.PricingRecord{{ID: "p1"}}, Total: 1})

	resp, err := New(srv.URL).ListPricings(context.Background(), &ListPricingsParams{Strategy: "REF"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
}

func TestClient_Summary(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/summary", r.URL.Path)
	}, http.StatusOK, domain.PricingSummary{TotalItems: 2, Difference: 6})

	sum, err := New(srv.URL).Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.TotalItems)
	assert.InDelta(t, 6.0, sum.Difference, 0.001)
}

func TestClient_Quote(t *testing.T) {
	t.Parallel()

	ref := 12.0
	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/quote", r.URL.Path)
		var in pricing.Input
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.NotNil(t, in.ReferencePrice)
	}, http.StatusOK, pricing.Result{FinalPrice: 12, Strategy: pricing.StrategyReference})

	res, err := New(srv.URL).Quote(context.Background(), &pricing.Input{ReferencePrice: &ref})
	require.NoError(t, err)
	assert.Equal(t, pricing.StrategyReference, res.Strategy)
}

func TestClient_QuoteBatch(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/quote/batch", r.URL.Path)
		var body struct {
			Items []pricing.Input `json:"items"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Items, 2)
	}, http.StatusOK, map[string]any{"results": []pricing.Result{
		{Strategy: pricing.StrategyFloor},
		{Strategy: pricing.StrategyFloor},
	}})

	res, err := New(srv.URL).QuoteBatch(context.Background(), []pricing.Input{{}, {}})
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestClient_Reprice(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/reprice", r.URL.Path)
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh", body["job"])
	}, http.StatusOK, RepriceResponse{Job: "refresh", Priced: 3})

	resp, err := New(srv.URL).Reprice(context.Background(), "refresh")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Priced)
}

func TestClient_ListJobs(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/jobs", r.URL.Path)
	}, http.StatusOK, []domain.JobRun{{JobName: "price_pending", Status: "succeeded"}})

	runs, err := New(srv.URL).ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "price_pending", runs[0].JobName)
}

func TestClient_GetJobHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit     int
		wantQuery string
	}{
		{limit: 0, wantQuery: ""},
		{limit: 5, wantQuery: "limit=5"},
	}

	for _, tt := range tests {
		t.Run(tt.wantQuery, func(t *testing.T) {
			t.Parallel()

			srv := jsonServer(t, func(r *http.Request) {
				assert.Equal(t, "/api/v1/jobs/refresh_stale", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
			}, http.StatusOK, []domain.JobRun{{JobName: "refresh_stale"}, {JobName: "refresh_stale"}})

			runs, err := New(srv.URL).GetJobHistory(context.Background(), "refresh_stale", tt.limit)
			require.NoError(t, err)
			assert.Len(t, runs, 2)
		})
	}
}

func TestClient_Quota(t *testing.T) {
	t.Parallel()

	srv := jsonServer(t, func(r *http.Request) {
		assert.Equal(t, "/api/v1/quota", r.URL.Path)
	}, http.StatusOK, map[string]any{
		"daily_limit": 5000,
		"daily_used":  12,
		"remaining":   4988,
		"reset_at":    "2026-03-02T00:00:00Z",
		"upstream":    map[string]any{"count": 15, "limit": 5000, "remaining": 4985, "reset_at": "2026-03-02T00:00:00Z"},
	})

	q, err := New(srv.URL).Quota(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4988), q.Remaining)
	require.NotNil(t, q.Upstream)
	assert.Equal(t, int64(15), q.Upstream.Count)
}

func TestWithHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{}
	c := New("http://example.com", WithHTTPClient(custom))
	assert.Same(t, custom, c.httpClient)
}
