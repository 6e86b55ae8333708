package analysis

import (
	"math"

	"lithuania-bess/internal/model"
)

// OracleProfit computes a perfect-foresight dispatch profit upper bound
// in EUR per MW over the series, via a simple DP: SOC discretized into
// steps of one interval's throughput for a 1 MW battery with the given
// duration. One-way efficiency sqrt(rte) applies to each leg. Initial
// SOC is half full.
//
// This bounds what any real strategy could earn on the same prices and
// serves as a sanity check on the daily sort-based arbitrage estimate,
// which must come in below it.
func OracleProfit(prices model.Series, durationHours int, roundTripEfficiency float64) float64 {
	if len(prices) == 0 || durationHours <= 0 {
		return 0
	}
	dt := intervalHours(prices)
	if dt <= 0 {
		return 0
	}
	oneWay := math.Sqrt(roundTripEfficiency)
	if oneWay <= 0 {
		return 0
	}

	// 1 MW for dt hours moves dt MWh; SOC moves by dt/duration.
	steps := int(math.Round(float64(durationHours) / dt))
	if steps < 1 {
		steps = 1
	}
	nStates := steps + 1
	negInf := -1e100
	dp := make([]float64, nStates)
	next := make([]float64, nStates)
	for i := range dp {
		dp[i] = negInf
	}
	init := int(math.Round(0.5 * float64(steps)))
	dp[init] = 0

	for _, p := range prices {
		for i := range next {
			next[i] = negInf
		}
		price := p.Value

		for socIdx := 0; socIdx <= steps; socIdx++ {
			if dp[socIdx] <= negInf/2 {
				continue
			}

			// Idle
			if dp[socIdx] > next[socIdx] {
				next[socIdx] = dp[socIdx]
			}

			// Charge: buy dt MWh, pay extra for the one-way loss.
			if socIdx < steps {
				gain := -(price * dt / oneWay)
				if dp[socIdx]+gain > next[socIdx+1] {
					next[socIdx+1] = dp[socIdx] + gain
				}
			}

			// Discharge: sell dt MWh net of the one-way loss.
			if socIdx > 0 {
				gain := price * dt * oneWay
				if dp[socIdx]+gain > next[socIdx-1] {
					next[socIdx-1] = dp[socIdx] + gain
				}
			}
		}
		dp, next = next, dp
	}

	best := negInf
	for _, v := range dp {
		if v > best {
			best = v
		}
	}
	if best <= negInf/2 {
		return 0
	}
	return best
}

// intervalHours infers the series resolution from the first two points.
func intervalHours(s model.Series) float64 {
	if len(s) < 2 {
		return 1
	}
	d := s[1].Time.Sub(s[0].Time).Hours()
	if d <= 0 {
		return 1
	}
	return d
}
