package revenue

import (
	"math"
	"sort"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

// DayAhead estimates annual day-ahead arbitrage revenue in EUR per MW of
// battery power.
//
// For each day the battery charges during the cheapest N hours and
// discharges during the most expensive N hours, where N is the duration.
// One-way efficiency sqrt(rte) applies to each leg: discharge revenue is
// scaled down by it, charge cost scaled up. Days where even the best
// spread loses money contribute zero, the operator simply does not cycle.
// The daily average is scaled to a year and discounted by the capture
// rate, since no real operator hits the perfect-foresight spread.
func DayAhead(prices model.Series, params model.BatteryParams, a config.Assumptions) float64 {
	days := prices.ByDay()
	oneWay := params.OneWayEfficiency()

	var total float64
	var count int
	for _, vals := range days {
		if len(vals) < a.MinDayObservations {
			continue
		}
		total += dayAheadDay(vals, params.DurationHours, oneWay)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count) * 365 * params.CaptureRate
}

// dayAheadDay computes one day's perfect-foresight spread revenue,
// clamped at zero.
func dayAheadDay(vals []float64, hours int, oneWay float64) float64 {
	if hours <= 0 || hours > len(vals) {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	var buy, sell float64
	for _, p := range sorted[:hours] {
		buy += p
	}
	for _, p := range sorted[len(sorted)-hours:] {
		sell += p
	}
	return math.Max(0, sell*oneWay-buy/oneWay)
}
