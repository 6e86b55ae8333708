package model

// Project is a hand-curated record of a known Lithuanian BESS project.
// Reference data, not derived from any feed; keep field values stable,
// they are intended for report output.
type Project struct {
	Developer string  `json:"developer" yaml:"developer"`
	PowerMW   float64 `json:"power_mw" yaml:"power_mw"`
	EnergyMWh float64 `json:"energy_mwh" yaml:"energy_mwh"`
	Location  string  `json:"location" yaml:"location"`
	Status    string  `json:"status" yaml:"status"`
	Year      int     `json:"year" yaml:"year"`
	Source    string  `json:"source,omitempty" yaml:"source,omitempty"`
}

// DurationHours derives the nominal duration from energy over power.
func (p Project) DurationHours() float64 {
	if p.PowerMW <= 0 {
		return 0
	}
	return p.EnergyMWh / p.PowerMW
}
