package model

import (
	"errors"
	"math"
)

// BatteryParams defines the economic parameters of the modeled battery.
// The revenue estimators work per MW of power capacity, so only duration
// and loss/capture assumptions are needed.
// Units:
// - DurationHours: usable energy divided by power (1/2/4 h typical)
// - RoundTripEfficiency: 0..1, fraction of stored energy recovered
// - CaptureRate: 0..1, discount vs perfect-foresight operation
type BatteryParams struct {
	DurationHours       int
	RoundTripEfficiency float64
	CaptureRate         float64
}

func (p BatteryParams) Validate() error {
	if p.DurationHours <= 0 {
		return errors.New("DurationHours must be > 0")
	}
	if p.RoundTripEfficiency <= 0 || p.RoundTripEfficiency > 1 {
		return errors.New("RoundTripEfficiency must be in (0, 1]")
	}
	if p.CaptureRate <= 0 || p.CaptureRate > 1 {
		return errors.New("CaptureRate must be in (0, 1]")
	}
	return nil
}

// OneWayEfficiency splits the round-trip efficiency symmetrically across
// the charge and discharge legs.
func (p BatteryParams) OneWayEfficiency() float64 {
	return math.Sqrt(p.RoundTripEfficiency)
}
