package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LaborRules holds the fixed-term contract thresholds of the Colombian labor code.
type LaborRules struct {
	MaxFixedTermYears    float64 `yaml:"max_fixed_term_years"`
	MinDaysFromExtension int     `yaml:"min_days_from_extension"`
	MinExtensionDays     int     `yaml:"min_extension_days"`
	DaysPerYear          float64 `yaml:"days_per_year"`
}

func DefaultLaborRules() LaborRules {
	return LaborRules{
		MaxFixedTermYears:    4,
		MinDaysFromExtension: 5,
		MinExtensionDays:     365,
		DaysPerYear:          365,
	}
}

// LoadLaborRules overlays the YAML file at path on the defaults. An empty path
// returns the defaults.
func LoadLaborRules(path string) (LaborRules, error) {
	rules := DefaultLaborRules()
	if path == "" {
		return rules, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return LaborRules{}, fmt.Errorf("config: read labor rules %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return LaborRules{}, fmt.Errorf("config: parse labor rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return LaborRules{}, err
	}
	return rules, nil
}

func (r LaborRules) Validate() error {
	if r.MaxFixedTermYears <= 0 {
		return fmt.Errorf("config: max_fixed_term_years must be positive")
	}
	if r.MinDaysFromExtension <= 0 {
		return fmt.Errorf("config: min_days_from_extension must be positive")
	}
	if r.MinExtensionDays < 0 {
		return fmt.Errorf("config: min_extension_days must not be negative")
	}
	if r.DaysPerYear <= 0 {
		return fmt.Errorf("config: days_per_year must be positive")
	}
	return nil
}
