package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/internal/api/handlers"
	"github.com/donaldgifford/vinyl-pricer/internal/ebay"
)

func TestGetQuota(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rl           *ebay.RateLimiter
		preCalls     int
		wantStatus   int
		wantLimit    int64
		wantUsed     int64
		wantRemain   int64
		wantResetNil bool
	}{
		{
			name:         "nil rate limiter returns zeroes",
			rl:           nil,
			wantStatus:   http.StatusOK,
			wantLimit:    0,
			wantUsed:     0,
			wantRemain:   0,
			wantResetNil: true,
		},
		{
			name:       "fresh rate limiter",
			rl:         ebay.NewRateLimiter(100, 10, 5000),
			wantStatus: http.StatusOK,
			wantLimit:  5000,
			wantUsed:   0,
			wantRemain: 5000,
		},
		{
			name:       "rate limiter with usage",
			rl:         ebay.NewRateLimiter(100, 10, 100),
			preCalls:   3,
			wantStatus: http.StatusOK,
			wantLimit:  100,
			wantUsed:   3,
			wantRemain: 97,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Simulate some API calls.
			if tt.rl != nil {
				for range tt.preCalls {
					require.NoError(t, tt.rl.Wait(t.Context()))
				}
			}

			h := handlers.NewQuotaHandler(tt.rl, nil)

			_, api := humatest.New(t)
			handlers.RegisterQuotaRoutes(api, h)

			resp := api.Get("/api/v1/quota")
			require.Equal(t, tt.wantStatus, resp.Code)

			var got struct {
				DailyLimit int64     `json:"daily_limit"`
				DailyUsed  int64     `json:"daily_used"`
				Remaining  int64     `json:"remaining"`
				ResetAt    time.Time `json:"reset_at"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
			assert.Equal(t, tt.wantLimit, got.DailyLimit)
			assert.Equal(t, tt.wantUsed, got.DailyUsed)
			assert.Equal(t, tt.wantRemain, got.Remaining)
			assert.Equal(t, tt.wantResetNil, got.ResetAt.IsZero())
		})
	}
}

func TestGetQuota_ResetAtValue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)
	rl := ebay.NewRateLimiter(
		5, 10, 5000,
		ebay.WithRateLimiterNowFunc(func() time.Time { return now }),
	)

	h := handlers.NewQuotaHandler(rl, nil)

	_, api := humatest.New(t)
	handlers.RegisterQuotaRoutes(api, h)

	resp := api.Get("/api/v1/quota")
	require.Equal(t, http.StatusOK, resp.Code)

	// ResetAt should be 24 hours from now.
	body := resp.Body.String()
	assert.Contains(t, body, "2025-06-16T14:30:00Z")
}

type stubQuota struct {
	state *ebay.QuotaState
	err   error
}

func (s *stubQuota) GetBrowseQuota(context.Context) (*ebay.QuotaState, error) {
	return s.state, s.err
}

func TestGetQuota_Upstream(t *testing.T) {
	t.Parallel()

	reset := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	h := handlers.NewQuotaHandler(nil, &stubQuota{state: &ebay.QuotaState{
		Count: 10, Limit: 5000, Remaining: 4990, ResetAt: reset,
	}})

	_, api := humatest.New(t)
	handlers.RegisterQuotaRoutes(api, h)

	resp := api.Get("/api/v1/quota")
	require.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.Contains(t, body, `"upstream"`)
	assert.Contains(t, body, `"remaining":4990`)
	assert.Contains(t, body, "2025-06-16T00:00:00Z")
}

func TestGetQuota_UpstreamError(t *testing.T) {
	t.Parallel()

	h := handlers.NewQuotaHandler(nil, &stubQuota{err: errors.New("401")})

	_, api := humatest.New(t)
	handlers.RegisterQuotaRoutes(api, h)

	resp := api.Get("/api/v1/quota")
	assert.Equal(t, http.StatusBadGateway, resp.Code)
}
