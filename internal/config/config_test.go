package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultAllocationSumsToOne(t *testing.T) {
	assert.InDelta(t, 1.0, Default().Assumptions.Allocation.Sum(), 1e-9)
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.88, cfg.Assumptions.RoundTripEfficiency)
	assert.Equal(t, []int{1, 2, 4}, cfg.Assumptions.Durations)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assumptions:
  round_trip_efficiency: 0.90
data:
  dir: /tmp/market-data
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.90, cfg.Assumptions.RoundTripEfficiency)
	assert.Equal(t, "/tmp/market-data", cfg.Data.Dir)
	// Untouched defaults survive the merge.
	assert.Equal(t, 0.85, cfg.Assumptions.CaptureRate)
	assert.Equal(t, 2100.0, cfg.Saturation.PeakLoadMW)
}

func TestLoadProjectsPathReplacesEmbeddedList(t *testing.T) {
	dir := t.TempDir()
	projects := filepath.Join(dir, "projects.json")
	require.NoError(t, os.WriteFile(projects, []byte(`{
  "updated_at": "2026-08-01T00:00:00Z",
  "projects": [
    {"developer": "Test Energy", "power_mw": 12.5, "energy_mwh": 25, "location": "Vilnius", "status": "Development", "year": 2027}
  ]
}`), 0644))

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  projects_path: "+projects+"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Projects, 1)
	assert.Equal(t, "Test Energy", cfg.Projects[0].Developer)
	assert.Equal(t, 12.5, cfg.Projects[0].PowerMW)
}

func TestLoadFailsOnMissingProjectsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data:\n  projects_path: /nonexistent/projects.json\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "projects file")
}

func TestLoadRejectsBadEfficiency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
assumptions:
  round_trip_efficiency: 1.3
`), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "round_trip_efficiency")
}

func TestValidateRejectsMissingAvailability(t *testing.T) {
	cfg := Default()
	cfg.Assumptions.Durations = append(cfg.Assumptions.Durations, 8)
	assert.ErrorContains(t, cfg.Validate(), "missing duration 8h")
}

func TestValidateRejectsShrinkingScenario(t *testing.T) {
	cfg := Default()
	cfg.Saturation.Scenarios["Bad"] = map[int]float64{2025: 500, 2026: 400}
	assert.ErrorContains(t, cfg.Validate(), "capacity decreases")
}

func TestValidateRejectsNegativeScenarioCapacity(t *testing.T) {
	cfg := Default()
	cfg.Saturation.Scenarios["Bad"] = map[int]float64{2025: -1}
	assert.ErrorContains(t, cfg.Validate(), "negative capacity")
}

func TestProjectionFactorsFallBack(t *testing.T) {
	p := Default().Projection
	assert.Equal(t, 0.65, p.BalancingFactor(2026))
	assert.Equal(t, 0.28, p.BalancingFactor(2035))
	assert.Equal(t, 0.85, p.DayAheadFactor(2026))
	assert.Equal(t, 0.50, p.DayAheadFactor(2035))
}
