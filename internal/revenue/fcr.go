package revenue

import (
	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

// FCR estimates annual frequency containment reserve revenue in EUR per
// MW for a given year.
//
// The Baltic FCR market has no public price feed, so prices come from the
// hand-maintained forecast table in the assumptions. The launch year is
// prorated to eleven months (the market opened in February). Unlisted
// years fall back to a conservative default.
func FCR(year int, params model.BatteryParams, a config.Assumptions) float64 {
	price, ok := a.FCRPricePerHour[year]
	if !ok {
		price = a.FCRDefaultPrice
	}
	avail, ok := a.FCRAvailability[params.DurationHours]
	if !ok {
		return 0
	}
	hours := 8760.0
	if year == a.FCRLaunchYear {
		hours *= 11.0 / 12.0
	}
	return price * hours * avail
}
