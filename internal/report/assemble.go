package report

import (
	"time"

	"lithuania-bess/internal/analysis"
	"lithuania-bess/internal/config"
	"lithuania-bess/internal/revenue"
	"lithuania-bess/internal/scenario"
)

// Assemble runs the full analysis pipeline over fetched market data and
// packages the results for rendering.
func Assemble(cfg *config.Config, in revenue.Inputs, generation []analysis.GenerationShare) Data {
	years := in.YearsWithData()
	historical := revenue.Estimate(in, years, cfg.Assumptions)

	size := scenario.SizeMarket(in.AFRR, in.MFRR, cfg.Saturation)

	d := Data{
		GeneratedAt:     time.Now(),
		Config:          cfg,
		Historical:      historical,
		HistoricalYears: years,
		Projected:       scenario.Project(historical, cfg),
		MarketSize:      size,
		Saturation:      scenario.Saturation(size, cfg.Saturation),
		Monthly:         analysis.MonthlyMeans(in.DayAhead),
		Hourly:          analysis.HourlyProfile(in.DayAhead),
		Projects:        cfg.Projects,
		Generation:      generation,
	}
	for _, year := range years {
		d.Stats = append(d.Stats, analysis.ComputePriceStats(in.DayAhead, year))
	}
	if len(years) > 0 {
		d.OracleYear = years[len(years)-1]
		d.Oracle = make(map[int]float64, len(cfg.Assumptions.Durations))
		prices := in.DayAhead.Year(d.OracleYear)
		for _, dur := range cfg.Assumptions.Durations {
			d.Oracle[dur] = analysis.OracleProfit(prices, dur, cfg.Assumptions.RoundTripEfficiency)
		}
	}
	return d
}
