// Package notify defines the notification interface and implementations
// for batch pricing run reports.
package notify

import (
	"context"
	"time"

	"github.com/donaldgifford/vinyl-pricer/pkg/pricing"
	domain "github.com/donaldgifford/vinyl-pricer/pkg/types"
)

// PricedLine is one item priced during a run.
type PricedLine struct {
	Artist   string
	Title    string
	Price    float64
	Strategy pricing.Strategy
}

// RunReport describes the outcome of one batch pricing run.
type RunReport struct {
	Job      string
	Priced   int
	Failed   int
	Duration time.Duration
	Lines    []PricedLine
	Summary  *domain.PricingSummary
}

// Notifier delivers run reports.
type Notifier interface {
	SendRunReport(ctx context.Context, report *RunReport) error
}
