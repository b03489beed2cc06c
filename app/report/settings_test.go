package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

func TestLoadSettings_Defaults(t *testing.T) {
	for _, path := range []string{"", filepath.Join(t.TempDir(), "missing.yml")} {
		settings, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings(%q): expected no error, got: %v", path, err)
		}
		if settings.TargetTerm.String() != "Fall 2026" {
			t.Errorf("Expected default target term Fall 2026, got %s", settings.TargetTerm)
		}
		if settings.TopN != 10 {
			t.Errorf("Expected default top n 10, got %d", settings.TopN)
		}
	}
}

func TestLoadSettings_OverridesDefaults(t *testing.T) {
	content := `
target_term: "Spring 2027"
top_n: 5
top_universities:
  - "berkeley"
`
	path := filepath.Join(t.TempDir(), "report.yml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if settings.TargetTerm != (applicant.Term{Season: applicant.SeasonSpring, Year: 2027}) {
		t.Errorf("Expected target term Spring 2027, got %s", settings.TargetTerm)
	}
	if settings.TopN != 5 {
		t.Errorf("Expected top n 5, got %d", settings.TopN)
	}
	if len(settings.TopUniversities) != 1 || settings.TopUniversities[0] != "berkeley" {
		t.Errorf("Expected top universities to be replaced, got %v", settings.TopUniversities)
	}
	if settings.PriorTerm.String() != "Fall 2025" {
		t.Errorf("Expected prior term to keep its default, got %s", settings.PriorTerm)
	}
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad term":    `target_term: "Autumn 2026"`,
		"negative n":  `top_n: -1`,
		"empty alias": "focus_university:\n  - \"\"",
		"broken yaml": `target_term: [`,
		"no program":  `focus_program: ""`,
	}

	for name, content := range tests {
		path := filepath.Join(t.TempDir(), "report.yml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadSettings(path); err == nil {
			t.Errorf("%s: expected an error", name)
		} else if strings.TrimSpace(err.Error()) == "" {
			t.Errorf("%s: expected a descriptive error", name)
		}
	}
}
