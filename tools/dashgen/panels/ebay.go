package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// APICallsRate returns a timeseries panel showing the eBay API call rate.
func APICallsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("API Calls Rate").
		Description("eBay Browse API calls per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(`vpr:ebay_api_calls:rate5m`, "calls/s", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DailyUsage returns a timeseries panel comparing the local rolling 24h
// counter with the remaining quota reported by eBay.
func DailyUsage() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Daily Usage vs Limit").
		Description(fmt.Sprintf("Rolling 24h eBay API call count (default budget: %d)", EbayDailyLimit)).
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(sel("vpr_ebay_daily_usage"), "usage", "A")).
		WithTarget(PromQuery(sel("vpr_ebay_rate_limit")+" - "+sel("vpr_ebay_rate_remaining"), "reported", "B")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(float64(EbayDailyLimit)*0.8, float64(EbayDailyLimit))).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ResetCountdown returns a stat panel showing time until the eBay quota
// window resets.
func ResetCountdown() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Quota Reset").
		Description("Time until the eBay Browse API quota resets").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(sel("vpr_ebay_rate_reset_timestamp")+" - time()", "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// LimitHits returns a stat panel showing the number of daily limit hits
// in the past 24 hours.
func LimitHits() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Limit Hits (24h)").
		Description("Times the eBay daily limit was reached in the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(
			fmt.Sprintf("increase(%s[24h])", sel("vpr_ebay_daily_limit_hits_total")),
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
