package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"lithuania-bess/internal/data"
	"lithuania-bess/internal/model"
)

// Config is the on-disk configuration shape (YAML). Every numeric constant
// in the revenue and saturation models is an analyst assumption, not a
// measurement, so all of them load from here; Default() carries the
// baseline used for the published analysis.
type Config struct {
	Data        DataConfig       `yaml:"data"`
	Assumptions Assumptions      `yaml:"assumptions"`
	Projection  ProjectionConfig `yaml:"projection"`
	Saturation  SaturationConfig `yaml:"saturation"`
	Projects    []model.Project  `yaml:"projects"`
}

// DataConfig locates the CSV inputs and the report outputs.
type DataConfig struct {
	Dir      string `yaml:"dir"`
	XLSXPath string `yaml:"xlsx_path"`
	HTMLPath string `yaml:"html_path"`
	// ProjectsPath points at a JSON project list maintained outside the
	// config file (see data.LoadProjects). When set, it replaces the
	// projects baked into the YAML.
	ProjectsPath string `yaml:"projects_path"`
}

// Assumptions holds the per-market revenue model parameters.
type Assumptions struct {
	// RoundTripEfficiency is the charge*discharge energy efficiency (0..1).
	RoundTripEfficiency float64 `yaml:"round_trip_efficiency"`
	// CaptureRate discounts perfect-foresight arbitrage to a realistic
	// operator (0..1). Applied to day-ahead and imbalance revenue.
	CaptureRate float64 `yaml:"capture_rate"`
	// Durations are the battery durations (hours) evaluated side by side.
	Durations []int `yaml:"durations"`
	// PeriodsPerYear is the number of 15-minute ISPs in a standard year,
	// used to annualize partial-year reserve data.
	PeriodsPerYear int `yaml:"periods_per_year"`
	// MinDayObservations: days with fewer price observations are skipped
	// entirely by the arbitrage estimators. Deliberate simplification, no
	// partial-day handling.
	MinDayObservations int `yaml:"min_day_observations"`

	// Availability factors by duration: the fraction of time a battery of
	// that duration can actually offer the service given state-of-charge
	// limits.
	AFRRAvailability map[int]float64 `yaml:"afrr_availability"`
	FCRAvailability  map[int]float64 `yaml:"fcr_availability"`
	MFRRAvailability map[int]float64 `yaml:"mfrr_availability"`

	// FCR has no ENTSO-E price feed (Baltic market launched Feb 2025);
	// these are hand-maintained EUR/MW/h forecasts.
	FCRPricePerHour map[int]float64 `yaml:"fcr_price_per_hour"`
	FCRDefaultPrice float64         `yaml:"fcr_default_price"`
	FCRLaunchYear   int             `yaml:"fcr_launch_year"`

	// Allocation is the multi-market time split. Weights should sum to 1.
	Allocation Allocation `yaml:"allocation"`
}

// Allocation is the assumed fraction of operating time devoted to each
// revenue stream when stacking markets.
type Allocation struct {
	AFRR      float64 `yaml:"afrr"`
	FCR       float64 `yaml:"fcr"`
	MFRR      float64 `yaml:"mfrr"`
	DayAhead  float64 `yaml:"day_ahead"`
	Imbalance float64 `yaml:"imbalance"`
}

// Sum returns the total allocated fraction.
func (a Allocation) Sum() float64 {
	return a.AFRR + a.FCR + a.MFRR + a.DayAhead + a.Imbalance
}

// ProjectionConfig drives the forward revenue projection. Compression
// factors express the modeler's judgment on how fast revenue degrades as
// more storage enters each market; balancing compresses faster than
// day-ahead arbitrage.
type ProjectionConfig struct {
	FromYear int `yaml:"from_year"`
	ToYear   int `yaml:"to_year"`
	// Base years whose computed revenue anchors the projection.
	BalancingBaseYear int `yaml:"balancing_base_year"`
	ImbalanceBaseYear int `yaml:"imbalance_base_year"`

	BalancingCompression map[int]float64 `yaml:"balancing_compression"`
	DayAheadCompression  map[int]float64 `yaml:"day_ahead_compression"`
	// Defaults for years past the configured horizon.
	DefaultBalancingCompression float64 `yaml:"default_balancing_compression"`
	DefaultDayAheadCompression  float64 `yaml:"default_day_ahead_compression"`
}

// BalancingFactor returns the balancing-market compression for a year.
func (p ProjectionConfig) BalancingFactor(year int) float64 {
	if f, ok := p.BalancingCompression[year]; ok {
		return f
	}
	return p.DefaultBalancingCompression
}

// DayAheadFactor returns the day-ahead compression for a year.
func (p ProjectionConfig) DayAheadFactor(year int) float64 {
	if f, ok := p.DayAheadCompression[year]; ok {
		return f
	}
	return p.DefaultDayAheadCompression
}

// SaturationConfig sizes the addressable market and the build-out
// scenarios compared against it.
type SaturationConfig struct {
	PeakLoadMW    float64 `yaml:"peak_load_mw"`
	FCREstimateMW float64 `yaml:"fcr_estimate_mw"`
	PipelineMW    float64 `yaml:"pipeline_mw"`
	PipelineMWh   float64 `yaml:"pipeline_mwh"`
	// BaseYear selects the reserve-quantity observations used to size the
	// balancing market.
	BaseYear int `yaml:"base_year"`
	// Scenarios map scenario name -> year -> installed MW. Each scenario
	// must be monotonically non-decreasing year over year.
	Scenarios map[string]map[int]float64 `yaml:"scenarios"`
}

// ScenarioNames returns the scenario names in stable order.
func (s SaturationConfig) ScenarioNames() []string {
	names := make([]string, 0, len(s.Scenarios))
	for name := range s.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the analyst baseline configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			Dir:      "data",
			XLSXPath: "out/lithuania_bess_analysis.xlsx",
			HTMLPath: "out/lithuania_bess_report.html",
		},
		Assumptions: Assumptions{
			RoundTripEfficiency: 0.88,
			CaptureRate:         0.85,
			Durations:           []int{1, 2, 4},
			PeriodsPerYear:      35040,
			MinDayObservations:  24,
			AFRRAvailability:    map[int]float64{1: 0.65, 2: 0.80, 4: 0.90},
			FCRAvailability:     map[int]float64{1: 0.90, 2: 0.92, 4: 0.95},
			MFRRAvailability:    map[int]float64{1: 0.70, 2: 0.82, 4: 0.90},
			FCRPricePerHour: map[int]float64{
				2024: 0, 2025: 30, 2026: 22, 2027: 18, 2028: 15, 2029: 12, 2030: 10,
			},
			FCRDefaultPrice: 15,
			FCRLaunchYear:   2025,
			Allocation: Allocation{
				AFRR:      0.40,
				FCR:       0.20,
				MFRR:      0.05,
				DayAhead:  0.25,
				Imbalance: 0.10,
			},
		},
		Projection: ProjectionConfig{
			FromYear:          2025,
			ToYear:            2030,
			BalancingBaseYear: 2025,
			ImbalanceBaseYear: 2024,
			BalancingCompression: map[int]float64{
				2024: 1.0, 2025: 1.0, 2026: 0.65, 2027: 0.45, 2028: 0.35, 2029: 0.30, 2030: 0.28,
			},
			DayAheadCompression: map[int]float64{
				2024: 1.0, 2025: 1.0, 2026: 0.85, 2027: 0.70, 2028: 0.60, 2029: 0.55, 2030: 0.50,
			},
			DefaultBalancingCompression: 0.28,
			DefaultDayAheadCompression:  0.50,
		},
		Saturation: SaturationConfig{
			PeakLoadMW:    2100,
			FCREstimateMW: 40,
			PipelineMW:    1700,
			PipelineMWh:   4000,
			BaseYear:      2025,
			Scenarios: map[string]map[int]float64{
				"High": {2025: 454, 2026: 800, 2027: 1200, 2028: 1500, 2029: 1700, 2030: 1700},
				"Base": {2025: 454, 2026: 650, 2027: 950, 2028: 1200, 2029: 1400, 2030: 1500},
				"Low":  {2025: 454, 2026: 550, 2027: 700, 2028: 850, 2029: 1000, 2030: 1100},
			},
		},
		Projects: []model.Project{
			{Developer: "UAB Vėjo Galia", PowerMW: 53.6, EnergyMWh: 107.3, Location: "Kaišiadorys", Status: "Operational", Year: 2025, Source: "Litgrid, first commercial BESS on transmission grid"},
			{Developer: "European Energy", PowerMW: 25, EnergyMWh: 65, Location: "Anykščiai", Status: "Construction complete", Year: 2026},
			{Developer: "Litgrid (TSO-owned)", PowerMW: 200, EnergyMWh: 200, Location: "Various", Status: "Operational", Year: 2024, Source: "First large-capacity facility"},
			{Developer: "Ignitis Group", PowerMW: 130, EnergyMWh: 260, Location: "TBD", Status: "Development", Year: 2026, Source: "EUR 130M investment announced"},
			{Developer: "E Energija Group", PowerMW: 100, EnergyMWh: 200, Location: "TBD", Status: "Under construction", Year: 2026},
			{Developer: "Fluence / Litgrid", PowerMW: 50, EnergyMWh: 100, Location: "TBD", Status: "Integration", Year: 2025},
		},
	}
}

// Load reads a YAML file over the defaults and validates the result. An
// empty path returns the validated defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if c.Data.ProjectsPath != "" {
		list, err := data.LoadProjects(c.Data.ProjectsPath)
		if err != nil {
			return nil, err
		}
		c.Projects = list.Projects
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	a := c.Assumptions
	if a.RoundTripEfficiency <= 0 || a.RoundTripEfficiency > 1 {
		return errors.New("assumptions.round_trip_efficiency must be in (0, 1]")
	}
	if a.CaptureRate <= 0 || a.CaptureRate > 1 {
		return errors.New("assumptions.capture_rate must be in (0, 1]")
	}
	if len(a.Durations) == 0 {
		return errors.New("assumptions.durations must not be empty")
	}
	if a.PeriodsPerYear <= 0 {
		return errors.New("assumptions.periods_per_year must be > 0")
	}
	if a.MinDayObservations <= 0 {
		return errors.New("assumptions.min_day_observations must be > 0")
	}
	for _, d := range a.Durations {
		p := model.BatteryParams{
			DurationHours:       d,
			RoundTripEfficiency: a.RoundTripEfficiency,
			CaptureRate:         a.CaptureRate,
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("duration %dh: %w", d, err)
		}
		for name, m := range map[string]map[int]float64{
			"afrr_availability": a.AFRRAvailability,
			"fcr_availability":  a.FCRAvailability,
			"mfrr_availability": a.MFRRAvailability,
		} {
			v, ok := m[d]
			if !ok {
				return fmt.Errorf("assumptions.%s missing duration %dh", name, d)
			}
			if v <= 0 || v > 1 {
				return fmt.Errorf("assumptions.%s[%d] must be in (0, 1]", name, d)
			}
		}
	}
	if sum := a.Allocation.Sum(); sum <= 0 || sum > 1.0001 {
		return fmt.Errorf("assumptions.allocation weights sum to %.3f, want (0, 1]", sum)
	}
	p := c.Projection
	if p.FromYear > p.ToYear {
		return errors.New("projection.from_year must be <= projection.to_year")
	}
	if p.DefaultBalancingCompression <= 0 || p.DefaultDayAheadCompression <= 0 {
		return errors.New("projection default compression factors must be > 0")
	}
	if c.Saturation.PeakLoadMW <= 0 {
		return errors.New("saturation.peak_load_mw must be > 0")
	}
	for name, timeline := range c.Saturation.Scenarios {
		if err := validateScenario(name, timeline); err != nil {
			return err
		}
	}
	return nil
}

// validateScenario rejects capacity timelines that shrink year over year:
// scenarios model cumulative build-out, so an edit that makes one
// non-monotonic is a data-entry mistake.
func validateScenario(name string, timeline map[int]float64) error {
	years := make([]int, 0, len(timeline))
	for y := range timeline {
		years = append(years, y)
	}
	sort.Ints(years)
	prev := 0.0
	for i, y := range years {
		mw := timeline[y]
		if mw < 0 {
			return fmt.Errorf("scenario %q: year %d has negative capacity", name, y)
		}
		if i > 0 && mw < prev {
			return fmt.Errorf("scenario %q: capacity decreases from %.0f to %.0f MW at %d", name, prev, mw, y)
		}
		prev = mw
	}
	return nil
}
