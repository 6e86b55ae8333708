package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

func reserveYear(year int, n int, up, down float64) model.ReserveSeries {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(model.ReserveSeries, n)
	for i := 0; i < n; i++ {
		s[i] = model.ReservePoint{
			Time:       start.Add(time.Duration(i) * 15 * time.Minute),
			UpQuantity: up, DownQuantity: down,
		}
	}
	return s
}

func TestSizeMarketSumsReserves(t *testing.T) {
	cfg := config.Default().Saturation
	afrr := reserveYear(cfg.BaseYear, 96, 18, 12)
	mfrr := reserveYear(cfg.BaseYear, 96, 40, 20)

	size := SizeMarket(afrr, mfrr, cfg)
	assert.InDelta(t, 30, size.AFRRMW, 1e-9)
	assert.InDelta(t, 60, size.MFRRMW, 1e-9)
	assert.InDelta(t, 30+60+cfg.FCREstimateMW, size.BalancingMW, 1e-9)
	assert.Equal(t, cfg.PeakLoadMW, size.PeakLoadMW)
}

func TestSizeMarketIgnoresOtherYears(t *testing.T) {
	cfg := config.Default().Saturation
	// Data from a year other than the base year contributes nothing.
	afrr := reserveYear(cfg.BaseYear-3, 96, 500, 500)
	size := SizeMarket(afrr, nil, cfg)
	assert.Zero(t, size.AFRRMW)
	assert.InDelta(t, cfg.FCREstimateMW, size.BalancingMW, 1e-9)
}

func TestSaturationRatios(t *testing.T) {
	cfg := config.Default().Saturation
	size := MarketSize{BalancingMW: 500, PeakLoadMW: 2000}
	cfg.Scenarios = map[string]map[int]float64{
		"Base": {2025: 250, 2026: 1000},
	}

	pts := Saturation(size, cfg)
	require.Len(t, pts, 2)
	assert.Equal(t, 2025, pts[0].Year)
	assert.InDelta(t, 0.5, pts[0].BalancingRatio, 1e-9)
	assert.InDelta(t, 0.125, pts[0].PeakLoadShare, 1e-9)
	// Past 1.0 the balancing market is fully saturated.
	assert.InDelta(t, 2.0, pts[1].BalancingRatio, 1e-9)
}

func TestSaturationOrdering(t *testing.T) {
	cfg := config.Default().Saturation
	size := MarketSize{BalancingMW: 500, PeakLoadMW: 2000}

	pts := Saturation(size, cfg)
	require.NotEmpty(t, pts)
	for i := 1; i < len(pts); i++ {
		prev, cur := pts[i-1], pts[i]
		if prev.Scenario == cur.Scenario {
			assert.Less(t, prev.Year, cur.Year)
			// Configured scenarios are cumulative build-outs.
			assert.LessOrEqual(t, prev.InstalledMW, cur.InstalledMW)
		} else {
			assert.Less(t, prev.Scenario, cur.Scenario)
		}
	}
}
