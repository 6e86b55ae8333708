package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

func TestCombineIsWeightedAverage(t *testing.T) {
	// If every market earns the same full-time rate X (each single
	// revenue being X times its own utilization discount), stacking with
	// weights summing to one must return exactly X.
	a := config.Default().Assumptions
	p := testParams(2)
	const x = 100000.0
	single := map[Market]float64{
		MarketAFRR:      x * a.AFRRAvailability[2],
		MarketFCR:       x * a.FCRAvailability[2],
		MarketMFRR:      x * a.MFRRAvailability[2],
		MarketDayAhead:  x * a.CaptureRate,
		MarketImbalance: x * a.CaptureRate,
	}
	require.InDelta(t, 1.0, a.Allocation.Sum(), 1e-9)
	assert.InDelta(t, x, Combine(single, p, a), 1e-6)
}

func TestCombineLinearInRevenues(t *testing.T) {
	a := config.Default().Assumptions
	p := testParams(4)
	single := map[Market]float64{
		MarketAFRR:      120000,
		MarketFCR:       90000,
		MarketMFRR:      40000,
		MarketDayAhead:  70000,
		MarketImbalance: 30000,
	}
	doubled := make(map[Market]float64, len(single))
	for m, v := range single {
		doubled[m] = 2 * v
	}
	base := Combine(single, p, a)
	require.Positive(t, base)
	assert.InDelta(t, 2*base, Combine(doubled, p, a), 1e-6)
}

func TestCombineBoundedByBestMarket(t *testing.T) {
	a := config.Default().Assumptions
	p := testParams(1)
	single := map[Market]float64{
		MarketAFRR:      150000,
		MarketFCR:       80000,
		MarketMFRR:      50000,
		MarketDayAhead:  60000,
		MarketImbalance: 20000,
	}
	best := 0.0
	for m, v := range single {
		rate := v
		switch m {
		case MarketDayAhead, MarketImbalance:
			rate = v / a.CaptureRate
		case MarketAFRR:
			rate = v / a.AFRRAvailability[1]
		case MarketFCR:
			rate = v / a.FCRAvailability[1]
		case MarketMFRR:
			rate = v / a.MFRRAvailability[1]
		}
		if rate > best {
			best = rate
		}
	}
	assert.LessOrEqual(t, Combine(single, p, a), best)
}

func TestEstimateProducesAllMarkets(t *testing.T) {
	day := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	in := Inputs{
		DayAhead: hourlyDay(t, day, flatDayPrices(10, map[int]float64{18: 120})),
		AFRR:     reserveSeries(96, 10, 5),
	}
	a := config.Default().Assumptions

	table := Estimate(in, []int{2025}, a)
	for _, market := range Markets {
		for _, dur := range a.Durations {
			_, ok := table[Key{Year: 2025, Market: market, Duration: dur}]
			assert.True(t, ok, "missing %s %dh", market, dur)
		}
	}
	// Markets with no data estimate to zero rather than erroring.
	assert.Zero(t, table.Get(2025, MarketMFRR, 2))
	assert.Positive(t, table.Get(2025, MarketAFRR, 2))
	assert.Positive(t, table.Get(2025, MarketFCR, 2))
}

func TestInputsYearsWithData(t *testing.T) {
	in := Inputs{
		DayAhead: model.Series{{Time: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), Value: 1}},
		AFRR:     reserveSeries(4, 1, 1), // 2025
	}
	assert.Equal(t, []int{2024, 2025}, in.YearsWithData())
}
