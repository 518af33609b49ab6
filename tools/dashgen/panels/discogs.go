package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// DiscogsRequestRate returns a timeseries panel showing Discogs API calls per
// second by endpoint and outcome.
func DiscogsRequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Discogs Requests").
		Description("Discogs API requests per second by endpoint and outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`vpr:discogs_requests:rate5m`, "{{endpoint}} {{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// DiscogsLatency returns a timeseries panel showing p95 Discogs latency per
// endpoint.
func DiscogsLatency() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Discogs Latency (p95)").
		Description("95th percentile Discogs API request duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(
			fmt.Sprintf(
				`histogram_quantile(0.95, sum(rate(vpr_discogs_request_duration_seconds_bucket{job="%s"}[5m])) by (le, endpoint))`,
				Job,
			),
			"{{endpoint}}", "A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(1, 3)).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// MusicBrainzRequestRate returns a timeseries panel showing MusicBrainz
// release lookups per second by endpoint and outcome.
func MusicBrainzRequestRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("MusicBrainz Requests").
		Description("MusicBrainz release search and lookup requests per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`vpr:musicbrainz_requests:rate5m`, "{{endpoint}} {{outcome}}", "A")).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
