package dump

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

const sampleExport = `[
  {
    "program": "Computer Science",
    "university": "Stanford University",
    "degree": "PhD",
    "status": "Accepted",
    "date_added": "2026-02-14",
    "gpa": 3.95,
    "gre_quantitative": "168",
    "gre_verbal": null,
    "gre_aw": 4.5,
    "comments": "Great<br>news",
    "url": "https://www.thegradcafe.com/result/1001",
    "entry_link": "https://www.thegradcafe.com/result/1001",
    "international": true,
    "semester_year": "Fall 2026",
    "llm_generated_program": "Computer Science",
    "llm_generated_university": "Stanford University"
  },
  {
    "program": "Physics",
    "date": "03/04/2025",
    "gre": 160,
    "gre_v": "155",
    "entry_link": "https://www.thegradcafe.com/result/1002",
    "us_or_international": "American",
    "term": "Spring 2025",
    "llm_generated_program": null
  }
]`

func TestDecode(t *testing.T) {
	batch, err := Decode(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	expectedRecords := []applicant.RawRecord{
		{
			DateText:        "2026-02-14",
			StatusText:      "Accepted",
			DegreeText:      "PhD",
			ProgramText:     "Computer Science at Stanford University",
			GPAText:         "3.95",
			GREQuantText:    "168",
			GREAWText:       "4.5",
			CommentsText:    "Great<br>news",
			TermText:        "Fall 2026",
			NationalityText: "International",
			EntryURL:        "https://www.thegradcafe.com/result/1001",
			EntryLink:       "https://www.thegradcafe.com/result/1001",
		},
		{
			DateText:        "03/04/2025",
			ProgramText:     "Physics",
			GREQuantText:    "160",
			GREVerbalText:   "155",
			TermText:        "Spring 2025",
			NationalityText: "American",
			EntryURL:        "https://www.thegradcafe.com/result/1002",
			EntryLink:       "https://www.thegradcafe.com/result/1002",
		},
	}
	if diff := cmp.Diff(expectedRecords, batch.Records); diff != "" {
		t.Errorf("Records mismatch (-expected +got):\n%s", diff)
	}

	if len(batch.Names) != 2 {
		t.Fatalf("Expected 2 names, got %d", len(batch.Names))
	}
	name := batch.Names[0]
	if name.EntryURL != "https://www.thegradcafe.com/result/1001" ||
		name.Program != applicant.Known("Computer Science") ||
		name.University != applicant.Known("Stanford University") {
		t.Errorf("Unexpected standardized name: %+v", name)
	}
	if batch.Names[1].Program.IsKnown() || batch.Names[1].University.IsKnown() {
		t.Errorf("Expected missing names to be unknown, got %+v", batch.Names[1])
	}
}

func TestDecode_Invalid(t *testing.T) {
	inputs := []string{
		`{"program": "not an array"}`,
		`[{"gpa": {"value": 3.9}}]`,
		`[{"program": `,
	}
	for _, input := range inputs {
		if _, err := Decode(strings.NewReader(input)); err == nil {
			t.Errorf("Decode(%q): expected an error", input)
		}
	}
}

func TestEntry_Nationality(t *testing.T) {
	tests := []struct {
		entry    Entry
		expected string
	}{
		{Entry{International: "true"}, "International"},
		{Entry{International: "false"}, "American"},
		{Entry{USOrInternational: "Other", International: "true"}, "Other"},
		{Entry{}, ""},
	}
	for _, tt := range tests {
		if got := tt.entry.nationality(); got != tt.expected {
			t.Errorf("nationality(%+v): expected %q, got %q", tt.entry, tt.expected, got)
		}
	}
}

func TestFile_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	if err := os.WriteFile(path, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("Failed to write export: %v", err)
	}

	batch, err := NewFile(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(batch.Records) != 2 {
		t.Errorf("Expected 2 records, got %d", len(batch.Records))
	}

	if _, err := NewFile(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background()); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
