package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/gauge"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
)

// probeStat is a red/green tile for a 0/1 probe gauge.
func probeStat(title, metric, meaning string) *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title(title).
		Description(meaning + " (1 = passing, 0 = failing)").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(sel(metric), "", "A")).
		Thresholds(ThresholdsRedGreen(1)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone).
		TextMode(common.BigValueTextModeValue)
}

// HealthzStat is the liveness probe tile.
func HealthzStat() *stat.PanelBuilder {
	return probeStat("Healthz", "vpr_healthz_up", "Process liveness")
}

// ReadyzStat is the readiness probe tile; it drops when Postgres is unreachable.
func ReadyzStat() *stat.PanelBuilder {
	return probeStat("Readyz", "vpr_readyz_up", "Database reachable")
}

// QuotaGauge shows eBay calls in the current window as a share of the
// default daily budget.
func QuotaGauge() *gauge.PanelBuilder {
	return gauge.NewPanelBuilder().
		Title("eBay Quota %").
		Description(fmt.Sprintf("Browse calls in the current 24h window out of %d", EbayDailyLimit)).
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery(fmt.Sprintf("100 * %s / %d", sel("vpr_ebay_daily_usage"), EbayDailyLimit), "", "A")).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(ThresholdsGreenYellowRed(80, 95)).
		ColorScheme(ColorSchemeThresholds())
}

// UptimeStat shows seconds since the process started.
func UptimeStat() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Uptime").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(StatWidth).
		WithTarget(PromQuery("time() - "+sel("process_start_time_seconds"), "", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}
