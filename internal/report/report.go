package report

import (
	"time"

	"lithuania-bess/internal/analysis"
	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
	"lithuania-bess/internal/revenue"
	"lithuania-bess/internal/scenario"
)

// Data bundles everything the Excel and HTML renderers need. The CLI and
// the API both assemble one of these and hand it to a renderer.
type Data struct {
	GeneratedAt time.Time
	Config      *config.Config

	// Historical estimates from fetched market data, and the years they
	// cover.
	Historical      revenue.Table
	HistoricalYears []int

	// Forward projection over the configured horizon.
	Projected revenue.Table

	MarketSize scenario.MarketSize
	Saturation []scenario.SaturationPoint

	// Day-ahead price diagnostics.
	Stats   []analysis.PriceStats
	Monthly []analysis.MonthlyMean
	Hourly  [24]float64

	// Oracle dispatch upper bound per duration (EUR/MW) for the latest
	// historical year, a cross-check on the arbitrage estimates.
	Oracle     map[int]float64
	OracleYear int

	Projects   []model.Project
	Generation []analysis.GenerationShare
}

// ProjectionYears returns the projection horizon years in order.
func (d Data) ProjectionYears() []int {
	var years []int
	for y := d.Config.Projection.FromYear; y <= d.Config.Projection.ToYear; y++ {
		years = append(years, y)
	}
	return years
}
