package revenue

import (
	"sort"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

// Imbalance estimates annual revenue in EUR per MW from passively
// arbitraging the spread between the imbalance price and the day-ahead
// price: deviating from schedule when the imbalance price rewards it.
//
// The deficit (short) settlement price is compared against the day-ahead
// price at the same timestamps. Each day the battery captures its
// duration's worth of the largest absolute spreads, paying the full
// round-trip efficiency loss since energy is cycled either way the spread
// points. The daily average is annualized and discounted by the capture
// rate; chasing imbalance spreads in real time is harder than clearing a
// day-ahead auction, so the same discount is deliberately reused rather
// than invented separately.
func Imbalance(daPrices model.Series, imbalance model.ImbalanceSeries, params model.BatteryParams, a config.Assumptions) float64 {
	imb, da := model.Intersect(imbalance.ShortPrices(), daPrices)
	if len(imb) == 0 {
		return 0
	}

	spreads := make(model.Series, len(imb))
	for i := range imb {
		d := imb[i].Value - da[i].Value
		if d < 0 {
			d = -d
		}
		spreads[i] = model.Point{Time: imb[i].Time, Value: d}
	}

	days := spreads.ByDay()
	var total float64
	var count int
	for _, vals := range days {
		if len(vals) < a.MinDayObservations {
			continue
		}
		total += imbalanceDay(vals, params.DurationHours, params.RoundTripEfficiency)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count) * 365 * params.CaptureRate
}

// imbalanceDay sums the top N spreads for one day, scaled by round-trip
// efficiency.
func imbalanceDay(vals []float64, hours int, rte float64) float64 {
	if hours <= 0 {
		return 0
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if hours > len(sorted) {
		hours = len(sorted)
	}
	var sum float64
	for _, v := range sorted[:hours] {
		sum += v
	}
	return sum * rte
}
