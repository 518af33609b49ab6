// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/vinyl-pricer/tools/dashgen/panels"
)

// OverviewUID is the stable Grafana UID of the overview dashboard.
const OverviewUID = "vpr-overview"

// BuildOverview constructs the vinyl-pricer overview dashboard with all
// metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("Vinyl Pricer Overview").
		Uid(OverviewUID).
		Tags([]string{"vpr", "vinyl-pricer"}).
		Refresh("30s").
		Time("now-24h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.PanicsStat()))

	b.WithRow(dashboard.NewRowBuilder("Pricing").
		WithPanel(panels.DecisionsByStrategy()).
		WithPanel(panels.StrategyMix()).
		WithPanel(panels.FloorShare()).
		WithPanel(panels.OverrideShare()).
		WithPanel(panels.ItemErrors()).
		WithPanel(panels.PriceDistribution()))

	b.WithRow(dashboard.NewRowBuilder("Batch Runs").
		WithPanel(panels.ItemsPricedRate()).
		WithPanel(panels.RunDuration()).
		WithPanel(panels.NextRun()))

	b.WithRow(dashboard.NewRowBuilder("Catalogs").
		WithPanel(panels.DiscogsRequestRate()).
		WithPanel(panels.DiscogsLatency()).
		WithPanel(panels.MusicBrainzRequestRate()))

	b.WithRow(dashboard.NewRowBuilder("eBay API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.DailyUsage()).
		WithPanel(panels.ResetCountdown()).
		WithPanel(panels.LimitHits()))

	b.WithRow(dashboard.NewRowBuilder("Notifications").
		WithPanel(panels.NotificationLatency()).
		WithPanel(panels.NotificationFailures()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
