package ebay_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/vinyl-pricer/internal/ebay"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRateLimiter_Wait(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		daily     int64
		calls     int
		wantOK    int
		wantCount int64
	}{
		{name: "under budget", daily: 10, calls: 3, wantOK: 3, wantCount: 3},
		{name: "exactly at budget", daily: 3, calls: 3, wantOK: 3, wantCount: 3},
		{name: "over budget", daily: 2, calls: 5, wantOK: 2, wantCount: 2},
		{name: "zero budget", daily: 0, calls: 1, wantOK: 0, wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rl := ebay.NewRateLimiter(1000, 10, tt.daily)
			ok := 0
			for range tt.calls {
				if err := rl.Wait(context.Background()); err != nil {
					require.ErrorIs(t, err, ebay.ErrDailyLimitReached)
					continue
				}
				ok++
			}
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCount, rl.DailyCount())
			assert.Equal(t, tt.daily-tt.wantCount, rl.Remaining())
		})
	}
}

func TestRateLimiter_WindowRolls(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	rl := ebay.NewRateLimiter(1000, 10, 2, ebay.WithRateLimiterNowFunc(clock.Now))
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx))
	require.NoError(t, rl.Wait(ctx))
	require.ErrorIs(t, rl.Wait(ctx), ebay.ErrDailyLimitReached)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), rl.ResetAt())

	// Two days later the window has rolled twice.
	clock.Advance(49 * time.Hour)
	assert.Equal(t, int64(0), rl.DailyCount())
	assert.Equal(t, time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC), rl.ResetAt())
	require.NoError(t, rl.Wait(ctx))
	assert.Equal(t, int64(1), rl.DailyCount())
}

func TestRateLimiter_CanceledWaitReturnsReservation(t *testing.T) {
	t.Parallel()

	// One token per hour: the second call must block on the bucket.
	rl := ebay.NewRateLimiter(1.0/3600, 1, 10)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := rl.Wait(ctx)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ebay.ErrDailyLimitReached)
	assert.Equal(t, int64(1), rl.DailyCount())
}

func TestRateLimiter_Sync(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		localCalls  int
		quota       *ebay.QuotaState
		wantCount   int64
		wantBudget  int64
		wantResetAt time.Time
	}{
		{
			name:        "nil is ignored",
			localCalls:  2,
			wantCount:   2,
			wantBudget:  5000,
			wantResetAt: base.Add(24 * time.Hour),
		},
		{
			name:        "adopts higher upstream usage",
			localCalls:  2,
			quota:       &ebay.QuotaState{Count: 300, Limit: 5000, ResetAt: base.Add(6 * time.Hour)},
			wantCount:   300,
			wantBudget:  5000,
			wantResetAt: base.Add(6 * time.Hour),
		},
		{
			name:        "keeps higher local usage",
			localCalls:  5,
			quota:       &ebay.QuotaState{Count: 1, Limit: 5000, ResetAt: base.Add(6 * time.Hour)},
			wantCount:   5,
			wantBudget:  5000,
			wantResetAt: base.Add(6 * time.Hour),
		},
		{
			name:        "lowers budget to upstream limit",
			quota:       &ebay.QuotaState{Count: 0, Limit: 1000, ResetAt: base.Add(time.Hour)},
			wantCount:   0,
			wantBudget:  1000,
			wantResetAt: base.Add(time.Hour),
		},
		{
			name:        "past reset time is ignored",
			localCalls:  1,
			quota:       &ebay.QuotaState{Count: 0, Limit: 9000, ResetAt: base.Add(-time.Hour)},
			wantCount:   1,
			wantBudget:  5000,
			wantResetAt: base.Add(24 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := &fakeClock{now: base}
			rl := ebay.NewRateLimiter(1000, 10, 5000, ebay.WithRateLimiterNowFunc(clock.Now))
			for range tt.localCalls {
				require.NoError(t, rl.Wait(context.Background()))
			}

			rl.Sync(tt.quota)
			assert.Equal(t, tt.wantCount, rl.DailyCount())
			assert.Equal(t, tt.wantBudget, rl.MaxDaily())
			assert.Equal(t, tt.wantResetAt, rl.ResetAt())
		})
	}
}

func TestRateLimiter_ConcurrentBudget(t *testing.T) {
	t.Parallel()

	rl := ebay.NewRateLimiter(10_000, 100, 10)
	var ok atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			if rl.Wait(context.Background()) == nil {
				ok.Add(1)
			}
		})
	}
	wg.Wait()

	assert.Equal(t, int32(10), ok.Load())
	assert.Equal(t, int64(0), rl.Remaining())
}
