package scenario

import (
	"sort"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

// MarketSize bounds the addressable market for battery storage in
// Lithuania in MW terms.
type MarketSize struct {
	// AFRRMW and MFRRMW are the mean contracted volumes (up plus down)
	// observed in the base year.
	AFRRMW float64
	MFRRMW float64
	// FCRMW is the hand-estimated FCR demand; no public volume feed.
	FCRMW float64
	// BalancingMW sums the three reserve markets.
	BalancingMW float64
	// PeakLoadMW caps how much day-ahead arbitrage the system can absorb.
	PeakLoadMW float64
	// Announced project pipeline.
	PipelineMW  float64
	PipelineMWh float64
}

// SizeMarket measures the addressable market from observed reserve
// procurement in the configured base year.
func SizeMarket(afrr, mfrr model.ReserveSeries, cfg config.SaturationConfig) MarketSize {
	afrrUp, afrrDown := afrr.Year(cfg.BaseYear).QuantityMeans()
	mfrrUp, mfrrDown := mfrr.Year(cfg.BaseYear).QuantityMeans()

	size := MarketSize{
		AFRRMW:      afrrUp + afrrDown,
		MFRRMW:      mfrrUp + mfrrDown,
		FCRMW:       cfg.FCREstimateMW,
		PeakLoadMW:  cfg.PeakLoadMW,
		PipelineMW:  cfg.PipelineMW,
		PipelineMWh: cfg.PipelineMWh,
	}
	size.BalancingMW = size.AFRRMW + size.MFRRMW + size.FCRMW
	return size
}

// SaturationPoint is one scenario-year: how much storage is installed
// against the addressable market.
type SaturationPoint struct {
	Scenario    string  `json:"scenario"`
	Year        int     `json:"year"`
	InstalledMW float64 `json:"installed_mw"`
	// BalancingRatio is installed capacity over the balancing market
	// size. Above 1.0 every marginal MW is fighting for energy-market
	// revenue only.
	BalancingRatio float64 `json:"balancing_ratio"`
	// PeakLoadShare is installed capacity over system peak load.
	PeakLoadShare float64 `json:"peak_load_share"`
}

// Saturation expands the configured build-out scenarios against the
// market size, sorted by scenario name then year.
func Saturation(size MarketSize, cfg config.SaturationConfig) []SaturationPoint {
	var out []SaturationPoint
	for _, name := range cfg.ScenarioNames() {
		timeline := cfg.Scenarios[name]
		years := make([]int, 0, len(timeline))
		for y := range timeline {
			years = append(years, y)
		}
		sort.Ints(years)
		for _, year := range years {
			mw := timeline[year]
			pt := SaturationPoint{
				Scenario:    name,
				Year:        year,
				InstalledMW: mw,
			}
			if size.BalancingMW > 0 {
				pt.BalancingRatio = mw / size.BalancingMW
			}
			if size.PeakLoadMW > 0 {
				pt.PeakLoadShare = mw / size.PeakLoadMW
			}
			out = append(out, pt)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Scenario != out[j].Scenario {
			return out[i].Scenario < out[j].Scenario
		}
		return out[i].Year < out[j].Year
	})
	return out
}
