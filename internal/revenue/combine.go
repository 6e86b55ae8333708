package revenue

import (
	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

// Combine stacks the single-market annual revenues into one multi-market
// estimate in EUR per MW.
//
// Each single-market figure already carries a utilization discount (the
// availability factor for reserves, the capture rate for energy markets).
// Stacking replaces that discount with an explicit time allocation: each
// revenue is rescaled to its full-time-equivalent rate and weighted by
// the fraction of the year the battery dedicates to that market. With
// weights summing to one, the result is a weighted average of full-time
// rates and can never exceed the best single market's full-time rate.
func Combine(single map[Market]float64, params model.BatteryParams, a config.Assumptions) float64 {
	alloc := a.Allocation
	d := params.DurationHours

	var total float64
	if avail := a.AFRRAvailability[d]; avail > 0 {
		total += alloc.AFRR * single[MarketAFRR] / avail
	}
	if avail := a.FCRAvailability[d]; avail > 0 {
		total += alloc.FCR * single[MarketFCR] / avail
	}
	if avail := a.MFRRAvailability[d]; avail > 0 {
		total += alloc.MFRR * single[MarketMFRR] / avail
	}
	if params.CaptureRate > 0 {
		total += alloc.DayAhead * single[MarketDayAhead] / params.CaptureRate
		total += alloc.Imbalance * single[MarketImbalance] / params.CaptureRate
	}
	return total
}
