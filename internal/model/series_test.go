package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesYear(t *testing.T) {
	s := Series{
		{Time: time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC), Value: 1},
		{Time: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 2},
		{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Value: 3},
	}
	got := s.Year(2025)
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Value)
}

func TestSeriesByDay(t *testing.T) {
	s := Series{
		{Time: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC), Value: 1},
		{Time: time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC), Value: 2},
		{Time: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Value: 3},
	}
	days := s.ByDay()
	require.Len(t, days, 2)
	assert.Equal(t, []float64{1, 2}, days["2025-01-01"])
	assert.Equal(t, []float64{3}, days["2025-01-02"])
}

func TestIntersect(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Series{
		{Time: base, Value: 1},
		{Time: base.Add(time.Hour), Value: 2},
		{Time: base.Add(2 * time.Hour), Value: 3},
	}
	b := Series{
		{Time: base.Add(time.Hour), Value: 20},
		{Time: base.Add(3 * time.Hour), Value: 40},
	}
	av, bv := Intersect(a, b)
	require.Len(t, av, 1)
	require.Len(t, bv, 1)
	assert.Equal(t, 2.0, av[0].Value)
	assert.Equal(t, 20.0, bv[0].Value)
	assert.Equal(t, av[0].Time, bv[0].Time)
}

func TestIntersectEmpty(t *testing.T) {
	av, bv := Intersect(nil, Series{{Time: time.Now(), Value: 1}})
	assert.Empty(t, av)
	assert.Empty(t, bv)
}

func TestBatteryParamsValidate(t *testing.T) {
	ok := BatteryParams{DurationHours: 2, RoundTripEfficiency: 0.88, CaptureRate: 0.85}
	require.NoError(t, ok.Validate())

	bad := ok
	bad.DurationHours = 0
	assert.Error(t, bad.Validate())

	bad = ok
	bad.RoundTripEfficiency = 1.5
	assert.Error(t, bad.Validate())

	bad = ok
	bad.CaptureRate = 0
	assert.Error(t, bad.Validate())
}

func TestOneWayEfficiency(t *testing.T) {
	p := BatteryParams{DurationHours: 2, RoundTripEfficiency: 0.81, CaptureRate: 0.85}
	assert.InDelta(t, 0.9, p.OneWayEfficiency(), 1e-9)
}

func TestReservePriceSums(t *testing.T) {
	s := ReserveSeries{
		{UpPrice: 10, DownPrice: 4},
		{UpPrice: 20, DownPrice: 6},
	}
	up, down := s.PriceSums()
	assert.Equal(t, 30.0, up)
	assert.Equal(t, 10.0, down)
}

func TestReserveQuantityMeans(t *testing.T) {
	s := ReserveSeries{
		{UpQuantity: 10, DownQuantity: 20},
		{UpQuantity: 30, DownQuantity: 40},
	}
	up, down := s.QuantityMeans()
	assert.Equal(t, 20.0, up)
	assert.Equal(t, 30.0, down)
}

func TestProjectDurationHours(t *testing.T) {
	p := Project{PowerMW: 50, EnergyMWh: 100}
	assert.Equal(t, 2.0, p.DurationHours())
	assert.Zero(t, Project{EnergyMWh: 100}.DurationHours())
}
