package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithuania-bess/internal/model"
)

func hourlySeries(start time.Time, vals []float64) model.Series {
	s := make(model.Series, len(vals))
	for i, v := range vals {
		s[i] = model.Point{Time: start.Add(time.Duration(i) * time.Hour), Value: v}
	}
	return s
}

func TestPercentileSorted(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 10.0, percentileSorted(sorted, 0))
	assert.Equal(t, 50.0, percentileSorted(sorted, 1))
	assert.Equal(t, 30.0, percentileSorted(sorted, 0.5))
	// Interpolated between order stats.
	assert.InDelta(t, 12.0, percentileSorted(sorted, 0.05), 1e-9)
	assert.InDelta(t, 48.0, percentileSorted(sorted, 0.95), 1e-9)
	assert.Zero(t, percentileSorted(nil, 0.5))
}

func TestComputePriceStats(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeries(start, []float64{-5, 0, 10, 20, 30, 95})

	stats := ComputePriceStats(s, 2024)
	assert.Equal(t, 2024, stats.Year)
	assert.Equal(t, 6, stats.Count)
	assert.Equal(t, -5.0, stats.Min)
	assert.Equal(t, 95.0, stats.Max)
	assert.InDelta(t, 25.0, stats.Mean, 1e-9)
	assert.Equal(t, 1, stats.NegativeHours)
	// Single day: daily spread is just max minus min.
	assert.InDelta(t, 100.0, stats.MeanDailySpread, 1e-9)
}

func TestComputePriceStatsFiltersYear(t *testing.T) {
	s := hourlySeries(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), []float64{1, 2, 3})
	stats := ComputePriceStats(s, 2024)
	assert.Zero(t, stats.Count)
}

func TestMonthlyMeans(t *testing.T) {
	jan := hourlySeries(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), []float64{10, 20})
	feb := hourlySeries(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), []float64{40})
	means := MonthlyMeans(append(jan, feb...))

	require.Len(t, means, 2)
	assert.Equal(t, time.January, means[0].Month)
	assert.InDelta(t, 15.0, means[0].Mean, 1e-9)
	assert.Equal(t, time.February, means[1].Month)
	assert.InDelta(t, 40.0, means[1].Mean, 1e-9)
}

func TestHourlyProfile(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	s := model.Series{
		{Time: day1.Add(5 * time.Hour), Value: 10},
		{Time: day2.Add(5 * time.Hour), Value: 30},
		{Time: day1.Add(18 * time.Hour), Value: 100},
	}
	profile := HourlyProfile(s)
	assert.InDelta(t, 20.0, profile[5], 1e-9)
	assert.InDelta(t, 100.0, profile[18], 1e-9)
	assert.Zero(t, profile[0])
}

func TestGenerationShares(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	shares := GenerationShares(map[string]model.Series{
		"B19": hourlySeries(start, []float64{300, 300}), // wind
		"B16": hourlySeries(start, []float64{100, 100}), // solar
	})
	require.Len(t, shares, 2)
	assert.Equal(t, "B19", shares[0].Type)
	assert.InDelta(t, 0.75, shares[0].Share, 1e-9)
	assert.InDelta(t, 0.25, shares[1].Share, 1e-9)
}

func TestOracleProfitSimpleCycle(t *testing.T) {
	// Two hours, buy nothing (SOC starts full for a 1h battery after
	// rounding), sell the 100 EUR hour. With perfect efficiency the
	// bound is exactly 100.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeries(start, []float64{0, 100})
	assert.InDelta(t, 100.0, OracleProfit(s, 1, 1.0), 1e-9)
}

func TestOracleProfitNonNegative(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := hourlySeries(start, []float64{50, 50, 50, 50})
	assert.GreaterOrEqual(t, OracleProfit(s, 2, 0.88), 0.0)
}

func TestOracleProfitBoundsDailySort(t *testing.T) {
	// The DP can cycle multiple times per day, so its bound must be at
	// least the single buy-low sell-high sweep.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	vals := []float64{10, 5, 80, 20, 15, 90, 30, 10, 70, 25, 5, 100,
		40, 20, 60, 30, 10, 85, 50, 15, 75, 35, 20, 95}
	s := hourlySeries(start, vals)

	oneWay := 0.938083151964686 // sqrt(0.88)
	singleSweep := 100*oneWay - 5/oneWay
	assert.GreaterOrEqual(t, OracleProfit(s, 1, 0.88), singleSweep)
}

func TestOracleProfitEmpty(t *testing.T) {
	assert.Zero(t, OracleProfit(nil, 2, 0.88))
}
