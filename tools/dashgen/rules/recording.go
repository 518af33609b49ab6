package rules

// RecordingRules precomputes the rates the dashboard and alerts read.
func RecordingRules() PrometheusRule {
	return newResource("vpr-recording-rules", RuleGroup{
		Name: "vpr-recording",
		Rules: []Rule{
			record("vpr:http_requests:rate5m", `sum(rate(vpr_http_requests_total[5m]))`),
			record("vpr:http_errors:rate5m", `sum(rate(vpr_http_requests_total{status=~"5.."}[5m]))`),
			record("vpr:pricing_decisions:rate5m", `sum(rate(vpr_pricing_decisions_total[5m])) by (strategy)`),
			record("vpr:pricing_item_errors:rate5m", `sum(rate(vpr_pricing_item_errors_total[5m]))`),
			record("vpr:reprice_items:rate5m", `sum(rate(vpr_reprice_items_total[5m])) by (job)`),
			record("vpr:discogs_requests:rate5m", `sum(rate(vpr_discogs_requests_total[5m])) by (endpoint, outcome)`),
			record("vpr:musicbrainz_requests:rate5m", `sum(rate(vpr_musicbrainz_requests_total[5m])) by (endpoint, outcome)`),
			record("vpr:ebay_api_calls:rate5m", `rate(vpr_ebay_api_calls_total[5m])`),
			record("vpr:notification_duration:p95_5m",
				`histogram_quantile(0.95, sum(rate(vpr_notification_duration_seconds_bucket[5m])) by (le))`),
		},
	})
}
