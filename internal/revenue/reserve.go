package revenue

import (
	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

// Reserve estimates annual balancing capacity revenue in EUR per MW from
// contracted reserve prices (aFRR or mFRR, selected by the series passed
// in and the availability table).
//
// Capacity payments are earned whether or not the reserve is activated,
// so revenue is just the sum of clearing prices over the year. Up and
// down procurement are separate auctions; a battery can offer both, and
// the 50/50 weighting assumes it splits its bids evenly. Partial-year
// data is annualized by the ratio of a standard year's settlement periods
// to the observed count, and the duration-dependent availability factor
// discounts for the state-of-charge headroom the battery must keep to
// actually deliver.
func Reserve(series model.ReserveSeries, availability map[int]float64, params model.BatteryParams, a config.Assumptions) float64 {
	if len(series) == 0 {
		return 0
	}
	avail, ok := availability[params.DurationHours]
	if !ok {
		return 0
	}
	up, down := series.PriceSums()
	annFactor := float64(a.PeriodsPerYear) / float64(len(series))
	return (0.5*up + 0.5*down) * avail * annFactor
}
