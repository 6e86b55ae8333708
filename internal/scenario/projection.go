package scenario

import (
	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
	"lithuania-bess/internal/revenue"
)

// Project extends a historical revenue table forward through the
// projection horizon.
//
// Balancing markets (aFRR, mFRR) are anchored on the balancing base
// year and decay with the balancing compression curve: every MW of new
// storage competes for a reserve demand that barely grows, so prices
// compress hard. Day-ahead and imbalance revenues are anchored on their
// own base years and compress along the gentler day-ahead curve, since
// arbitrage spreads are set by the whole generation mix rather than by
// competing batteries alone. FCR is recomputed per year from the price
// forecast table. The combined estimate is restacked from the projected
// singles so it stays a weighted average in every year.
func Project(base revenue.Table, cfg *config.Config) revenue.Table {
	a := cfg.Assumptions
	p := cfg.Projection

	out := make(revenue.Table)
	for year := p.FromYear; year <= p.ToYear; year++ {
		bal := p.BalancingFactor(year)
		da := p.DayAheadFactor(year)

		for _, dur := range a.Durations {
			params := model.BatteryParams{
				DurationHours:       dur,
				RoundTripEfficiency: a.RoundTripEfficiency,
				CaptureRate:         a.CaptureRate,
			}
			single := map[revenue.Market]float64{
				revenue.MarketAFRR:      base.Get(p.BalancingBaseYear, revenue.MarketAFRR, dur) * bal,
				revenue.MarketMFRR:      base.Get(p.BalancingBaseYear, revenue.MarketMFRR, dur) * bal,
				revenue.MarketDayAhead:  base.Get(p.BalancingBaseYear, revenue.MarketDayAhead, dur) * da,
				revenue.MarketImbalance: base.Get(p.ImbalanceBaseYear, revenue.MarketImbalance, dur) * da,
				revenue.MarketFCR:       revenue.FCR(year, params, a),
			}
			for market, rev := range single {
				out[revenue.Key{Year: year, Market: market, Duration: dur}] = rev
			}
			out[revenue.Key{Year: year, Market: revenue.MarketCombined, Duration: dur}] =
				revenue.Combine(single, params, a)
		}
	}
	return out
}
