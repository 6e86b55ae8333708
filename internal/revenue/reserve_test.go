package revenue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lithuania-bess/internal/config"
	"lithuania-bess/internal/model"
)

func reserveSeries(n int, up, down float64) model.ReserveSeries {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(model.ReserveSeries, n)
	for i := 0; i < n; i++ {
		s[i] = model.ReservePoint{
			Time:    start.Add(time.Duration(i) * 15 * time.Minute),
			UpPrice: up, DownPrice: down,
			UpQuantity: 18, DownQuantity: 12,
		}
	}
	return s
}

func TestReserveAnnualization(t *testing.T) {
	// 100 observed periods at up=10, down=6: the 50/50 price sum is 800,
	// annualized by 35040/100 and discounted by the 2h availability.
	a := config.Default().Assumptions
	got := Reserve(reserveSeries(100, 10, 6), a.AFRRAvailability, testParams(2), a)
	want := (0.5*1000 + 0.5*600) * 0.80 * 35040.0 / 100.0
	assert.InDelta(t, want, got, 1e-6)
}

func TestReserveProportionalToCoverage(t *testing.T) {
	// Doubling the observation count at the same prices doubles the sums
	// but halves the annualization factor: the estimate is unchanged.
	a := config.Default().Assumptions
	short := Reserve(reserveSeries(200, 8, 4), a.MFRRAvailability, testParams(4), a)
	long := Reserve(reserveSeries(400, 8, 4), a.MFRRAvailability, testParams(4), a)
	require.Positive(t, short)
	assert.InDelta(t, short, long, 1e-6)
}

func TestReserveScalesWithPrices(t *testing.T) {
	a := config.Default().Assumptions
	base := Reserve(reserveSeries(96, 10, 6), a.AFRRAvailability, testParams(1), a)
	doubled := Reserve(reserveSeries(96, 20, 12), a.AFRRAvailability, testParams(1), a)
	require.Positive(t, base)
	assert.InDelta(t, 2*base, doubled, 1e-6)
}

func TestReserveEmpty(t *testing.T) {
	a := config.Default().Assumptions
	assert.Zero(t, Reserve(nil, a.AFRRAvailability, testParams(2), a))
}

func TestReserveUnknownDuration(t *testing.T) {
	a := config.Default().Assumptions
	assert.Zero(t, Reserve(reserveSeries(10, 10, 6), a.AFRRAvailability, testParams(8), a))
}
