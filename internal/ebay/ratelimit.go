package ebay

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ErrDailyLimitReached is returned when the daily API call budget is spent.
var ErrDailyLimitReached = errors.New("daily API limit reached")

const quotaWindow = 24 * time.Hour

// RateLimiter paces Browse calls with a token bucket and enforces a daily
// budget over a rolling window. The window opens at construction and rolls
// forward every 24 hours unless the Analytics API reports another reset
// time through Sync.
type RateLimiter struct {
	bucket *rate.Limiter
	now    func() time.Time

	mu      sync.Mutex
	budget  int64
	used    int64
	resetAt time.Time
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time source.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.now = f
	}
}

// NewRateLimiter allows perSecond calls with the given burst and at most
// daily calls per window.
func NewRateLimiter(perSecond float64, burst int, daily int64, opts ...RateLimiterOption) *RateLimiter {
	r := &RateLimiter{
		bucket: rate.NewLimiter(rate.Limit(perSecond), burst),
		budget: daily,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetAt = r.now().Add(quotaWindow)
	return r
}

// Wait reserves one call from the daily budget, then blocks on the token
// bucket. The reservation is returned if ctx ends first.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.reserve(); err != nil {
		return err
	}
	if err := r.bucket.Wait(ctx); err != nil {
		r.release()
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

func (r *RateLimiter) reserve() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rollLocked()
	if r.used >= r.budget {
		return fmt.Errorf("%w (%d/%d)", ErrDailyLimitReached, r.used, r.budget)
	}
	r.used++
	return nil
}

func (r *RateLimiter) release() {
	r.mu.Lock()
	if r.used > 0 {
		r.used--
	}
	r.mu.Unlock()
}

// rollLocked starts a new window once the current one has passed.
func (r *RateLimiter) rollLocked() {
	now := r.now()
	if now.Before(r.resetAt) {
		return
	}
	r.used = 0
	for !now.Before(r.resetAt) {
		r.resetAt = r.resetAt.Add(quotaWindow)
	}
}

// Sync reconciles the local window with the quota eBay reports. Usage only
// moves up, the budget only moves down, and eBay's reset time replaces the
// local one.
func (r *RateLimiter) Sync(q *QuotaState) {
	if q == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if !q.ResetAt.IsZero() && q.ResetAt.After(r.now()) {
		r.resetAt = q.ResetAt
	}
	r.rollLocked()
	if q.Count > r.used {
		r.used = q.Count
	}
	if q.Limit > 0 && q.Limit < r.budget {
		r.budget = q.Limit
	}
}

// DailyCount returns calls used in the current window.
func (r *RateLimiter) DailyCount() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollLocked()
	return r.used
}

// MaxDaily returns the daily budget.
func (r *RateLimiter) MaxDaily() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.budget
}

// Remaining returns calls left in the current window.
func (r *RateLimiter) Remaining() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollLocked()
	return max(r.budget-r.used, 0)
}

// ResetAt returns when the current window ends.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rollLocked()
	return r.resetAt
}
