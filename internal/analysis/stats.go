package analysis

import (
	"math"
	"sort"
	"time"

	"lithuania-bess/internal/model"
)

// PriceStats is a one-year summary of a price series. It intentionally
// does not depend on a specific battery size; it includes both raw price
// stats and an "oracle" profit upper bound for a canonical battery.
type PriceStats struct {
	Year  int
	Count int

	Start time.Time
	End   time.Time

	Min  float64
	Max  float64
	Mean float64
	P05  float64
	P95  float64

	SpreadP95P05 float64

	// NegativeHours counts observations with price below zero.
	NegativeHours int
	// MeanDailySpread is the mean of each day's max minus min.
	MeanDailySpread float64
}

// ComputePriceStats summarizes one year of day-ahead prices.
func ComputePriceStats(s model.Series, year int) PriceStats {
	s = s.Year(year)
	p := PriceStats{Year: year}
	if len(s) == 0 {
		return p
	}
	p.Count = len(s)
	p.Start = s.Start()
	p.End = s.End()

	sum := 0.0
	minv := math.Inf(1)
	maxv := math.Inf(-1)
	vals := make([]float64, 0, len(s))
	for _, pt := range s {
		v := pt.Value
		vals = append(vals, v)
		sum += v
		if v < minv {
			minv = v
		}
		if v > maxv {
			maxv = v
		}
		if v < 0 {
			p.NegativeHours++
		}
	}
	sort.Float64s(vals)
	p.Min = minv
	p.Max = maxv
	p.Mean = sum / float64(len(vals))
	p.P05 = percentileSorted(vals, 0.05)
	p.P95 = percentileSorted(vals, 0.95)
	p.SpreadP95P05 = p.P95 - p.P05
	p.MeanDailySpread = meanDailySpread(s)
	return p
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func meanDailySpread(s model.Series) float64 {
	days := s.ByDay()
	if len(days) == 0 {
		return 0
	}
	var total float64
	for _, vals := range days {
		minv := math.Inf(1)
		maxv := math.Inf(-1)
		for _, v := range vals {
			if v < minv {
				minv = v
			}
			if v > maxv {
				maxv = v
			}
		}
		total += maxv - minv
	}
	return total / float64(len(days))
}

// MonthlyMean is the average price for one calendar month.
type MonthlyMean struct {
	Year  int
	Month time.Month
	Mean  float64
}

// MonthlyMeans averages the series per calendar month, sorted
// chronologically.
func MonthlyMeans(s model.Series) []MonthlyMean {
	type acc struct {
		sum   float64
		count int
	}
	byMonth := make(map[int]*acc)
	for _, p := range s {
		t := p.Time.UTC()
		key := t.Year()*100 + int(t.Month())
		a := byMonth[key]
		if a == nil {
			a = &acc{}
			byMonth[key] = a
		}
		a.sum += p.Value
		a.count++
	}
	keys := make([]int, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	out := make([]MonthlyMean, 0, len(keys))
	for _, k := range keys {
		a := byMonth[k]
		out = append(out, MonthlyMean{
			Year:  k / 100,
			Month: time.Month(k % 100),
			Mean:  a.sum / float64(a.count),
		})
	}
	return out
}

// HourlyProfile averages the series by hour of day (UTC). Shows the
// daily shape a battery arbitrages: the morning and evening peaks
// against the midday solar dip.
func HourlyProfile(s model.Series) [24]float64 {
	var sums [24]float64
	var counts [24]int
	for _, p := range s {
		h := p.Time.UTC().Hour()
		sums[h] += p.Value
		counts[h]++
	}
	var out [24]float64
	for h := 0; h < 24; h++ {
		if counts[h] > 0 {
			out[h] = sums[h] / float64(counts[h])
		}
	}
	return out
}

// GenerationShares sums per-type generation and returns each type's share
// of the total, sorted by share descending.
type GenerationShare struct {
	Type  string
	MWh   float64
	Share float64
}

func GenerationShares(byType map[string]model.Series) []GenerationShare {
	var total float64
	out := make([]GenerationShare, 0, len(byType))
	for typ, s := range byType {
		var sum float64
		for _, p := range s {
			sum += p.Value
		}
		out = append(out, GenerationShare{Type: typ, MWh: sum})
		total += sum
	}
	if total > 0 {
		for i := range out {
			out[i].Share = out[i].MWh / total
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Share > out[j].Share })
	return out
}
