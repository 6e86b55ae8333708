package revenue

import (
	"sort"

	"github.com/rs/zerolog/log"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

// Market identifies a revenue stream. The names double as display labels
// in reports.
type Market string

const (
	MarketDayAhead  Market = "DA Arbitrage"
	MarketAFRR      Market = "aFRR"
	MarketFCR       Market = "FCR"
	MarketMFRR      Market = "mFRR"
	MarketImbalance Market = "Imbalance"
	MarketCombined  Market = "Multi-Market Combined"
)

// Markets lists all revenue streams in report order.
var Markets = []Market{
	MarketDayAhead,
	MarketAFRR,
	MarketFCR,
	MarketMFRR,
	MarketImbalance,
	MarketCombined,
}

// Key addresses one estimate: a market, a data year, and a battery
// duration.
type Key struct {
	Year     int
	Market   Market
	Duration int
}

// Table holds annual revenue estimates in EUR per MW, keyed by year,
// market, and duration.
type Table map[Key]float64

// Get returns the estimate for a key, zero if absent.
func (t Table) Get(year int, market Market, duration int) float64 {
	return t[Key{Year: year, Market: market, Duration: duration}]
}

// Years returns the distinct years present, sorted.
func (t Table) Years() []int {
	seen := map[int]bool{}
	for k := range t {
		seen[k.Year] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Inputs bundles the historical market data the estimators consume.
type Inputs struct {
	DayAhead  model.Series
	Imbalance model.ImbalanceSeries
	AFRR      model.ReserveSeries
	MFRR      model.ReserveSeries
}

// YearsWithData returns the years covered by any input series, sorted.
func (in Inputs) YearsWithData() []int {
	seen := map[int]bool{}
	for _, p := range in.DayAhead {
		seen[p.Time.UTC().Year()] = true
	}
	for _, p := range in.Imbalance {
		seen[p.Time.UTC().Year()] = true
	}
	for _, p := range in.AFRR {
		seen[p.Time.UTC().Year()] = true
	}
	for _, p := range in.MFRR {
		seen[p.Time.UTC().Year()] = true
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Estimate computes the full revenue table for the given years and every
// configured duration. Markets with no data for a year produce zero
// rather than an error; the reports label them accordingly.
func Estimate(in Inputs, years []int, a config.Assumptions) Table {
	out := make(Table)
	for _, year := range years {
		da := in.DayAhead.Year(year)
		imb := in.Imbalance.Year(year)
		afrr := in.AFRR.Year(year)
		mfrr := in.MFRR.Year(year)

		for _, dur := range a.Durations {
			params := model.BatteryParams{
				DurationHours:       dur,
				RoundTripEfficiency: a.RoundTripEfficiency,
				CaptureRate:         a.CaptureRate,
			}

			single := map[Market]float64{
				MarketDayAhead:  DayAhead(da, params, a),
				MarketAFRR:      Reserve(afrr, a.AFRRAvailability, params, a),
				MarketFCR:       FCR(year, params, a),
				MarketMFRR:      Reserve(mfrr, a.MFRRAvailability, params, a),
				MarketImbalance: Imbalance(da, imb, params, a),
			}
			for market, rev := range single {
				out[Key{Year: year, Market: market, Duration: dur}] = rev
			}
			out[Key{Year: year, Market: MarketCombined, Duration: dur}] = Combine(single, params, a)

			log.Debug().
				Int("year", year).
				Int("duration_h", dur).
				Float64("combined_eur_per_mw", out.Get(year, MarketCombined, dur)).
				Msg("estimated revenue")
		}
	}
	return out
}
