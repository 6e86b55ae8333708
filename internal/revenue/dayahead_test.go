package revenue

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

func hourlyDay(t *testing.T, day time.Time, prices []float64) model.Series {
	t.Helper()
	require.Len(t, prices, 24)
	s := make(model.Series, 24)
	for h, p := range prices {
		s[h] = model.Point{Time: day.Add(time.Duration(h) * time.Hour), Value: p}
	}
	return s
}

func flatDayPrices(base float64, spikes map[int]float64) []float64 {
	out := make([]float64, 24)
	for h := range out {
		out[h] = base
	}
	for h, p := range spikes {
		out[h] = p
	}
	return out
}

func testParams(dur int) model.BatteryParams {
	return model.BatteryParams{
		DurationHours:       dur,
		RoundTripEfficiency: 0.88,
		CaptureRate:         0.85,
	}
}

func TestDayAheadSpikeDay(t *testing.T) {
	// 22 hours at 10 EUR, 2 hours at 100 EUR. A 2h battery buys the two
	// cheapest (20 EUR) and sells the two spikes (200 EUR).
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s := hourlyDay(t, day, flatDayPrices(10, map[int]float64{18: 100, 19: 100}))

	a := config.Default().Assumptions
	got := DayAhead(s, testParams(2), a)

	oneWay := math.Sqrt(0.88)
	raw := 200*oneWay - 20/oneWay
	require.Positive(t, raw)
	assert.InDelta(t, raw*365*0.85, got, 1e-6)
}

func TestDayAheadNeverNegative(t *testing.T) {
	// Flat prices: any cycle loses the efficiency cost, so the operator
	// sits out and the day contributes zero.
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	s := hourlyDay(t, day, flatDayPrices(50, nil))

	a := config.Default().Assumptions
	assert.Zero(t, DayAhead(s, testParams(2), a))
}

func TestDayAheadSkipsShortDays(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	full := hourlyDay(t, day, flatDayPrices(10, map[int]float64{12: 200}))
	// Second day has only 3 observations and must be ignored.
	short := model.Series{
		{Time: day.AddDate(0, 0, 1), Value: 0},
		{Time: day.AddDate(0, 0, 1).Add(time.Hour), Value: 1000},
		{Time: day.AddDate(0, 0, 1).Add(2 * time.Hour), Value: 2000},
	}

	a := config.Default().Assumptions
	withShort := DayAhead(append(full, short...), testParams(1), a)
	fullOnly := DayAhead(full, testParams(1), a)
	assert.Equal(t, fullOnly, withShort)
}

func TestDayAheadScalesWithPrices(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s := hourlyDay(t, day, flatDayPrices(20, map[int]float64{8: 150, 20: 180}))
	doubled := make(model.Series, len(s))
	for i, p := range s {
		doubled[i] = model.Point{Time: p.Time, Value: 2 * p.Value}
	}

	a := config.Default().Assumptions
	base := DayAhead(s, testParams(2), a)
	require.Positive(t, base)
	assert.InDelta(t, 2*base, DayAhead(doubled, testParams(2), a), 1e-9)
}

func TestDayAheadEmptySeries(t *testing.T) {
	a := config.Default().Assumptions
	assert.Zero(t, DayAhead(nil, testParams(2), a))
}

func TestDayAheadLongerDurationEarnsMore(t *testing.T) {
	// With a wide spread every extra hour of duration adds profitable
	// cycling, so revenue grows with duration.
	day := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	prices := make([]float64, 24)
	for h := range prices {
		prices[h] = float64(10 * h) // 0..230, strictly increasing
	}
	s := hourlyDay(t, day, prices)

	a := config.Default().Assumptions
	r1 := DayAhead(s, testParams(1), a)
	r2 := DayAhead(s, testParams(2), a)
	r4 := DayAhead(s, testParams(4), a)
	assert.Less(t, r1, r2)
	assert.Less(t, r2, r4)
}
