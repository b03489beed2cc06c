package report

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

// Settings parameterizes the statistic catalog. Name matching is
// case-insensitive; university aliases must match whole words.
type Settings struct {
	TargetTerm      applicant.Term `yaml:"target_term"`
	PriorTerm       applicant.Term `yaml:"prior_term"`
	TargetYear      int            `yaml:"target_year"`
	FocusProgram    string         `yaml:"focus_program"`
	FocusUniversity []string       `yaml:"focus_university"`
	TopUniversities []string       `yaml:"top_universities"`
	TopN            int            `yaml:"top_n"`
}

func DefaultSettings() Settings {
	return Settings{
		TargetTerm:      applicant.Term{Season: applicant.SeasonFall, Year: 2026},
		PriorTerm:       applicant.Term{Season: applicant.SeasonFall, Year: 2025},
		TargetYear:      2026,
		FocusProgram:    "computer science",
		FocusUniversity: []string{"johns hopkins", "jhu"},
		TopUniversities: []string{"georgetown", "mit", "massachusetts institute of technology", "stanford", "carnegie mellon", "cmu"},
		TopN:            10,
	}
}

// LoadSettings reads a YAML settings file on top of the defaults. An empty
// path or a missing file yields the defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return settings, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid report settings %s: %w", path, err)
	}

	return settings, nil
}

func (s Settings) Validate() error {
	requiredFields := map[string]string{
		"focus program": s.FocusProgram,
	}
	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	if s.TargetTerm.Year == 0 {
		return fmt.Errorf("target term is required")
	}
	if s.PriorTerm.Year == 0 {
		return fmt.Errorf("prior term is required")
	}
	if s.TargetYear <= 0 {
		return fmt.Errorf("target year must be positive")
	}
	if s.TopN <= 0 {
		return fmt.Errorf("top n must be positive")
	}

	aliasLists := map[string][]string{
		"focus university": s.FocusUniversity,
		"top universities": s.TopUniversities,
	}
	for fieldName, aliases := range aliasLists {
		if len(aliases) == 0 {
			return fmt.Errorf("%s needs at least one alias", fieldName)
		}
		for i, alias := range aliases {
			if alias == "" {
				return fmt.Errorf("empty %s alias at index %d", fieldName, i)
			}
		}
	}

	return nil
}
