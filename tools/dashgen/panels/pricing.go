package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// DecisionsByStrategy returns a timeseries panel showing the pricing
// decision rate split by strategy code.
func DecisionsByStrategy() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Decisions by Strategy").
		Description("Pricing decisions per minute by strategy code").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`vpr:pricing_decisions:rate5m * 60`, "{{strategy}}", "A")).
		FillOpacity(30).
		LineWidth(1).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// StrategyMix returns a bar gauge panel showing the share of each strategy
// over the last 24 hours.
func StrategyMix() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Strategy Mix (24h)").
		Description("Pricing decisions per strategy code over the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(increase(vpr_pricing_decisions_total{job="%s"}[24h])) by (strategy)`, Job),
			"{{strategy}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// FloorShare returns a stat panel showing the percentage of decisions that
// fell through to the floor price.
func FloorShare() *stat.PanelBuilder {
	expr := fmt.Sprintf(
		`sum(rate(vpr_pricing_decisions_total{job="%s",strategy="FLR"}[1h])) / sum(rate(vpr_pricing_decisions_total{job="%s"}[1h])) * 100`,
		Job, Job,
	)
	return stat.NewPanelBuilder().
		Title("Floor Share").
		Description("Percentage of decisions priced at the floor in the last hour").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(8).
		WithTarget(PromQuery(expr, "", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenYellowRed(25, 50)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeNone)
}

// OverrideShare returns a stat panel showing the percentage of decisions
// where the reference price replaced a lower automated price.
func OverrideShare() *stat.PanelBuilder {
	expr := fmt.Sprintf(
		`sum(rate(vpr_pricing_reference_overrides_total{job="%s"}[1h])) / sum(rate(vpr_pricing_decisions_total{job="%s"}[1h])) * 100`,
		Job, Job,
	)
	return stat.NewPanelBuilder().
		Title("Reference Overrides").
		Description("Percentage of decisions raised to the reference price in the last hour").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(8).
		WithTarget(PromQuery(expr, "", "A")).
		Unit("percent").
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// ItemErrors returns a stat panel showing item pricing failures in the past
// 24 hours.
func ItemErrors() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Item Errors (24h)").
		Description("Items that could not be priced or persisted in the last 24 hours").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(8).
		WithTarget(PromQuery(
			fmt.Sprintf("increase(%s[24h])", sel("vpr_pricing_item_errors_total")),
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// PriceDistribution returns a bar gauge panel showing the distribution of
// final listing prices across histogram buckets.
func PriceDistribution() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Final Price Distribution").
		Description("Final listing prices by histogram bucket over the last 24 hours").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(`sum(increase(vpr_pricing_final_price_dollars_bucket{job="%s"}[24h])) by (le)`, Job),
			"{{le}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}
