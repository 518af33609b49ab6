package main

import "errors"

// KnownMetrics is the set of metric names exported by vinyl-pricer plus
// recording rule names referenced in dashboards and alerts.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"vpr_http_request_duration_seconds": true,
	"vpr_http_requests_total":           true,
	"vpr_http_requests_in_flight":       true,
	"vpr_http_panics_total":             true,

	// Health metrics.
	"vpr_healthz_up": true,
	"vpr_readyz_up":  true,

	// Pricing metrics.
	"vpr_pricing_decisions_total":              true,
	"vpr_pricing_final_price_dollars":          true,
	"vpr_pricing_reference_overrides_total":    true,
	"vpr_pricing_item_errors_total":            true,
	"vpr_reprice_duration_seconds":             true,
	"vpr_reprice_items_total":                  true,
	"vpr_scheduler_next_run_timestamp":         true,
	"vpr_discogs_requests_total":               true,
	"vpr_discogs_request_duration_seconds":     true,
	"vpr_musicbrainz_requests_total":           true,
	"vpr_musicbrainz_request_duration_seconds": true,
	"vpr_notification_duration_seconds":        true,
	"vpr_notification_failures_total":          true,

	// eBay API metrics.
	"vpr_ebay_api_calls_total":        true,
	"vpr_ebay_daily_usage":            true,
	"vpr_ebay_daily_limit_hits_total": true,
	"vpr_ebay_rate_limit":             true,
	"vpr_ebay_rate_remaining":         true,
	"vpr_ebay_rate_reset_timestamp":   true,

	// Recording rules.
	"vpr:http_requests:rate5m":         true,
	"vpr:http_errors:rate5m":           true,
	"vpr:pricing_decisions:rate5m":     true,
	"vpr:pricing_item_errors:rate5m":   true,
	"vpr:reprice_items:rate5m":         true,
	"vpr:discogs_requests:rate5m":      true,
	"vpr:musicbrainz_requests:rate5m":  true,
	"vpr:ebay_api_calls:rate5m":        true,
	"vpr:notification_duration:p95_5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
