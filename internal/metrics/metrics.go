// Package metrics defines Prometheus metrics for vinyl-pricer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vpr"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})

	HTTPPanicsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_panics_total",
		Help:      "Handler panics recovered by the server.",
	})
)

// Health metrics.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the liveness probe last succeeded.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the readiness probe last succeeded.",
	})
)

// Pricing metrics.
var (
	PricingDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_decisions_total",
		Help:      "Total pricing decisions by strategy code.",
	}, []string{"strategy"})

	PricingFinalPrice = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pricing_final_price_dollars",
		Help:      "Distribution of final listing prices.",
		Buckets:   []float64{5, 7.5, 10, 15, 20, 30, 50, 75, 100, 200, 500},
	})

	PricingReferenceOverridesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_reference_overrides_total",
		Help:      "Total decisions where the reference price replaced a lower automated price.",
	})

	PricingItemErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pricing_item_errors_total",
		Help:      "Total items that could not be priced or persisted.",
	})
)

// Job metrics.
var (
	RepriceDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "reprice_duration_seconds",
		Help:      "Duration of batch pricing runs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	RepriceItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reprice_items_total",
		Help:      "Total items priced by batch runs.",
	}, []string{"job"})

	SchedulerNextRunTimestamp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_next_run_timestamp",
		Help:      "Unix timestamp of the next scheduled run per job.",
	}, []string{"job"})
)

// Discogs API metrics.
var (
	DiscogsRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discogs_requests_total",
		Help:      "Total Discogs API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	DiscogsRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "discogs_request_duration_seconds",
		Help:      "Duration of Discogs API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// MusicBrainz API metrics.
var (
	MusicBrainzRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "musicbrainz_requests_total",
		Help:      "Total MusicBrainz API requests by endpoint and outcome.",
	}, []string{"endpoint", "outcome"})

	MusicBrainzRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "musicbrainz_request_duration_seconds",
		Help:      "Duration of MusicBrainz API requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// eBay API metrics.
var (
	EbayAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_api_calls_total",
		Help:      "Total cumulative eBay API calls.",
	})

	EbayDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_daily_usage",
		Help:      "Current daily eBay API call count within the rolling 24-hour window.",
	})

	EbayDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_daily_limit_hits_total",
		Help:      "Total number of times the daily eBay API limit was reached.",
	})

	EbayRateLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_rate_limit",
		Help:      "Browse API daily call limit reported by the Analytics API.",
	})

	EbayRateRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_rate_remaining",
		Help:      "Browse API calls remaining as reported by the Analytics API.",
	})

	EbayRateResetTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_rate_reset_timestamp",
		Help:      "Unix timestamp of the next Browse API quota reset.",
	})
)

// Notification metrics.
var (
	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of run report deliveries in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})
)
