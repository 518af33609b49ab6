package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ItemsPricedRate returns a timeseries panel showing items priced per minute
// by batch job.
func ItemsPricedRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Items Priced / min").
		Description("Items priced by scheduled or manual batch runs").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`vpr:reprice_items:rate5m * 60`, "{{job}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RunDuration returns a timeseries panel showing the p95 batch run duration
// per job.
func RunDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Run Duration (p95)").
		Description("95th percentile batch pricing run duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			fmt.Sprintf(
				`histogram_quantile(0.95, sum(rate(vpr_reprice_duration_seconds_bucket{job="%s"}[1h])) by (le, job))`,
				Job,
			),
			"{{job}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// NextRun returns a stat panel showing time until each scheduled job fires.
func NextRun() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Next Run").
		Description("Time until the next scheduled run per job").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(sel("vpr_scheduler_next_run_timestamp")+" - time()", "{{job}}", "A")).
		Unit("s").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}
