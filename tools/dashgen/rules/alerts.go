package rules

func alert(name, expr, forDur, severity, summary, description string) Rule {
	return Rule{
		Alert:  name,
		Expr:   expr,
		For:    forDur,
		Labels: map[string]string{"severity": severity},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}

// AlertRules are the paging and warning conditions for the pricer.
func AlertRules() PrometheusRule {
	return newResource("vpr-alerts", RuleGroup{
		Name: "vpr-alerts",
		Rules: []Rule{
			alert("VprDown",
				`absent(up{job="vinyl-pricer"})`, "2m", "critical",
				"Vinyl pricer is down",
				"The vinyl-pricer job has been absent for more than 2 minutes."),
			alert("VprReadinessDown",
				`vpr_readyz_up == 0`, "2m", "critical",
				"Vinyl pricer readiness check is failing",
				"The readiness probe has been reporting not-ready for more than 2 minutes."),
			alert("VprHighErrorRate",
				`vpr:http_errors:rate5m / vpr:http_requests:rate5m > 0.05`, "5m", "warning",
				"High HTTP error rate on the vinyl pricer",
				"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
			alert("VprItemErrors",
				`vpr:pricing_item_errors:rate5m > 0`, "10m", "warning",
				"Items are failing to price",
				"Batch runs have been failing to price or persist items for more than 10 minutes."),
			alert("VprFloorHeavy",
				`sum(vpr:pricing_decisions:rate5m{strategy="FLR"}) / sum(vpr:pricing_decisions:rate5m) > 0.5`, "30m", "warning",
				"Most items are falling through to the floor price",
				"More than half of pricing decisions used the floor for 30 minutes. Market data sources may be failing."),
			alert("VprDiscogsErrors",
				`sum(vpr:discogs_requests:rate5m{outcome="error"}) > 0.1`, "10m", "warning",
				"Discogs API errors are elevated",
				"Discogs requests have been failing at more than 0.1/s for 10 minutes."),
			alert("VprEbayQuotaHigh",
				`vpr_ebay_daily_usage > 4000`, "5m", "warning",
				"eBay API daily usage is above 80% of the budget",
				"Daily eBay API usage has exceeded 4000 calls (default budget is 5000)."),
			alert("VprEbayLimitReached",
				`increase(vpr_ebay_daily_limit_hits_total[5m]) > 0`, "0m", "critical",
				"eBay API daily limit has been reached",
				"The eBay Browse API budget is exhausted. eBay strategies are skipped until reset."),
			alert("VprNotificationFailures",
				`increase(vpr_notification_failures_total[5m]) > 0`, "1m", "warning",
				"Run report delivery failures detected",
				"One or more run report webhooks have failed to send."),
		},
	})
}
