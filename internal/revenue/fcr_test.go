package revenue

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lithuania-bess/internal/config"
)

func TestFCRKnownYear(t *testing.T) {
	a := config.Default().Assumptions
	got := FCR(2026, testParams(2), a)
	assert.InDelta(t, 22*8760*0.92, got, 1e-6)
}

func TestFCRLaunchYearProrated(t *testing.T) {
	// The Baltic FCR market opened in February 2025, so the launch year
	// only earns eleven months.
	a := config.Default().Assumptions
	got := FCR(2025, testParams(4), a)
	assert.InDelta(t, 30*8760*11.0/12.0*0.95, got, 1e-6)
}

func TestFCRUnknownYearUsesDefault(t *testing.T) {
	a := config.Default().Assumptions
	got := FCR(2040, testParams(1), a)
	assert.InDelta(t, a.FCRDefaultPrice*8760*0.90, got, 1e-6)
}

func TestFCRUnknownDuration(t *testing.T) {
	a := config.Default().Assumptions
	assert.Zero(t, FCR(2026, testParams(6), a))
}
