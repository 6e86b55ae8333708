package model

import "time"

// ReservePoint is one contracted-reserve observation from the ENTSO-E
// balancing domain: price and procured quantity per direction for one
// imbalance settlement period.
//
// Units:
// - Prices: EUR per MW per settlement period
// - Quantities: MW
type ReservePoint struct {
	Time         time.Time
	UpPrice      float64
	DownPrice    float64
	UpQuantity   float64
	DownQuantity float64
}

// ReserveSeries is a time-ordered contracted-reserve series for one
// process type (A47 aFRR or A51 mFRR).
type ReserveSeries []ReservePoint

// Year returns the sub-series for the given calendar year (UTC).
func (s ReserveSeries) Year(year int) ReserveSeries {
	out := make(ReserveSeries, 0, len(s))
	for _, p := range s {
		if p.Time.UTC().Year() == year {
			out = append(out, p)
		}
	}
	return out
}

// PriceSums returns the summed up- and down-direction per-period prices.
func (s ReserveSeries) PriceSums() (up, down float64) {
	for _, p := range s {
		up += p.UpPrice
		down += p.DownPrice
	}
	return up, down
}

// QuantityMeans returns the mean procured up- and down-direction MW, or
// zeros for an empty series.
func (s ReserveSeries) QuantityMeans() (up, down float64) {
	if len(s) == 0 {
		return 0, 0
	}
	for _, p := range s {
		up += p.UpQuantity
		down += p.DownQuantity
	}
	n := float64(len(s))
	return up / n, down / n
}
