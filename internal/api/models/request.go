package models

// RevenueRequest customizes a revenue estimate run. Zero-value fields
// fall back to the server's configured assumptions.
type RevenueRequest struct {
	// Years restricts which data years to estimate. Empty means every
	// year with data.
	Years []int `json:"years,omitempty"`
	// Durations restricts which battery durations to evaluate.
	Durations []int `json:"durations,omitempty"`
	// Optional assumption overrides.
	RoundTripEfficiency *float64 `json:"round_trip_efficiency,omitempty"`
	CaptureRate         *float64 `json:"capture_rate,omitempty"`
}
