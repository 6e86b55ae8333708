package model

import "time"

// Point is one observation of a time-indexed market series.
// All timestamps are stored in UTC; ENTSO-E data is fetched with explicit
// offsets and normalized on load.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a time-ordered sequence of observations for one market
// (day-ahead price, imbalance price, load, a single flow direction, ...).
// Granularity is whatever the source reports: hourly historically,
// 15-minute from ~2024. A Series is immutable once loaded.
type Series []Point

// Year returns the sub-series whose timestamps fall in the given calendar
// year (UTC).
func (s Series) Year(year int) Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if p.Time.UTC().Year() == year {
			out = append(out, p)
		}
	}
	return out
}

// ByDay groups observations by UTC calendar day, preserving input order
// within each day. Keys use the "2006-01-02" format.
func (s Series) ByDay() map[string][]float64 {
	out := map[string][]float64{}
	for _, p := range s {
		key := p.Time.UTC().Format("2006-01-02")
		out[key] = append(out[key], p.Value)
	}
	return out
}

// Values returns the raw observation values in series order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Start returns the timestamp of the first observation, or the zero time
// for an empty series.
func (s Series) Start() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[0].Time
}

// End returns the timestamp of the last observation, or the zero time for
// an empty series.
func (s Series) End() time.Time {
	if len(s) == 0 {
		return time.Time{}
	}
	return s[len(s)-1].Time
}

// Intersect aligns two series on their common timestamps and returns the
// matched value pairs in time order. Used to pair day-ahead prices with
// imbalance settlement prices, which are reported at different
// granularities over the observed window.
func Intersect(a, b Series) (av, bv Series) {
	byTime := make(map[int64]float64, len(b))
	for _, p := range b {
		byTime[p.Time.UTC().Unix()] = p.Value
	}
	for _, p := range a {
		if v, ok := byTime[p.Time.UTC().Unix()]; ok {
			av = append(av, p)
			bv = append(bv, Point{Time: p.Time, Value: v})
		}
	}
	return av, bv
}

// ImbalancePoint is one imbalance settlement observation. Long is the
// price paid to parties with surplus, Short the price charged to parties
// in deficit; since single imbalance pricing the two coincide.
type ImbalancePoint struct {
	Time  time.Time
	Long  float64
	Short float64
}

// ImbalanceSeries is a time-ordered imbalance price series.
type ImbalanceSeries []ImbalancePoint

// Year returns the subset of points falling in the given UTC year.
func (s ImbalanceSeries) Year(year int) ImbalanceSeries {
	var out ImbalanceSeries
	for _, p := range s {
		if p.Time.UTC().Year() == year {
			out = append(out, p)
		}
	}
	return out
}

// ShortPrices projects the series onto the short settlement price.
func (s ImbalanceSeries) ShortPrices() Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = Point{Time: p.Time, Value: p.Short}
	}
	return out
}

// LongPrices projects the series onto the long settlement price.
func (s ImbalanceSeries) LongPrices() Series {
	out := make(Series, len(s))
	for i, p := range s {
		out[i] = Point{Time: p.Time, Value: p.Long}
	}
	return out
}
