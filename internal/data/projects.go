package data

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"lithuania-bess/internal/model"
)

// ProjectList is the on-disk collection of announced BESS projects.
type ProjectList struct {
	UpdatedAt string          `json:"updated_at"` // ISO 8601 timestamp
	Projects  []model.Project `json:"projects"`
}

// TotalMW sums the announced power across all projects.
func (l *ProjectList) TotalMW() float64 {
	var total float64
	for _, p := range l.Projects {
		total += p.PowerMW
	}
	return total
}

// TotalMWh sums the announced energy across all projects.
func (l *ProjectList) TotalMWh() float64 {
	var total float64
	for _, p := range l.Projects {
		total += p.EnergyMWh
	}
	return total
}

// LoadProjects loads the project list from a JSON file.
func LoadProjects(filePath string) (*ProjectList, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read projects file: %w", err)
	}

	var list ProjectList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to parse projects file: %w", err)
	}

	return &list, nil
}

// SaveProjects saves the project list to a JSON file.
func SaveProjects(list *ProjectList, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	raw, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal projects: %w", err)
	}

	if err := os.WriteFile(filePath, raw, 0644); err != nil {
		return fmt.Errorf("failed to write projects file: %w", err)
	}

	return nil
}
