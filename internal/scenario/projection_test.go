package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
	"lithuania-bess/internal/revenue"
)

func baseTable(cfg *config.Config) revenue.Table {
	table := make(revenue.Table)
	for _, dur := range cfg.Assumptions.Durations {
		table[revenue.Key{Year: 2025, Market: revenue.MarketAFRR, Duration: dur}] = 100000
		table[revenue.Key{Year: 2025, Market: revenue.MarketMFRR, Duration: dur}] = 40000
		table[revenue.Key{Year: 2025, Market: revenue.MarketDayAhead, Duration: dur}] = 60000
		table[revenue.Key{Year: 2024, Market: revenue.MarketImbalance, Duration: dur}] = 30000
	}
	return table
}

func TestProjectAppliesCompression(t *testing.T) {
	cfg := config.Default()
	out := Project(baseTable(cfg), cfg)

	// 2026: balancing compresses to 0.65, day-ahead to 0.85.
	assert.InDelta(t, 65000, out.Get(2026, revenue.MarketAFRR, 2), 1e-6)
	assert.InDelta(t, 26000, out.Get(2026, revenue.MarketMFRR, 2), 1e-6)
	assert.InDelta(t, 51000, out.Get(2026, revenue.MarketDayAhead, 2), 1e-6)
	// Imbalance anchors on its own 2024 base year.
	assert.InDelta(t, 25500, out.Get(2026, revenue.MarketImbalance, 2), 1e-6)
}

func TestProjectBaseYearUncompressed(t *testing.T) {
	cfg := config.Default()
	out := Project(baseTable(cfg), cfg)
	assert.InDelta(t, 100000, out.Get(2025, revenue.MarketAFRR, 1), 1e-6)
	assert.InDelta(t, 60000, out.Get(2025, revenue.MarketDayAhead, 1), 1e-6)
}

func TestProjectRecomputesFCRPerYear(t *testing.T) {
	cfg := config.Default()
	a := cfg.Assumptions
	out := Project(baseTable(cfg), cfg)

	p := model.BatteryParams{DurationHours: 2, RoundTripEfficiency: a.RoundTripEfficiency, CaptureRate: a.CaptureRate}
	assert.InDelta(t, revenue.FCR(2027, p, a), out.Get(2027, revenue.MarketFCR, 2), 1e-6)
	// FCR declines as the table's price forecast falls.
	assert.Greater(t, out.Get(2026, revenue.MarketFCR, 2), out.Get(2030, revenue.MarketFCR, 2))
}

func TestProjectCombinedRestacked(t *testing.T) {
	cfg := config.Default()
	a := cfg.Assumptions
	out := Project(baseTable(cfg), cfg)

	for year := cfg.Projection.FromYear; year <= cfg.Projection.ToYear; year++ {
		p := model.BatteryParams{DurationHours: 4, RoundTripEfficiency: a.RoundTripEfficiency, CaptureRate: a.CaptureRate}
		single := map[revenue.Market]float64{
			revenue.MarketAFRR:      out.Get(year, revenue.MarketAFRR, 4),
			revenue.MarketFCR:       out.Get(year, revenue.MarketFCR, 4),
			revenue.MarketMFRR:      out.Get(year, revenue.MarketMFRR, 4),
			revenue.MarketDayAhead:  out.Get(year, revenue.MarketDayAhead, 4),
			revenue.MarketImbalance: out.Get(year, revenue.MarketImbalance, 4),
		}
		want := revenue.Combine(single, p, a)
		require.InDelta(t, want, out.Get(year, revenue.MarketCombined, 4), 1e-6, "year %d", year)
	}
}

func TestProjectBalancingDeclinesMonotonically(t *testing.T) {
	cfg := config.Default()
	out := Project(baseTable(cfg), cfg)
	prev := out.Get(2025, revenue.MarketAFRR, 2)
	for year := 2026; year <= 2030; year++ {
		cur := out.Get(year, revenue.MarketAFRR, 2)
		assert.LessOrEqual(t, cur, prev, "year %d", year)
		prev = cur
	}
}
