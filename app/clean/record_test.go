package clean

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

func TestNormalize_FullRecord(t *testing.T) {
	raw := applicant.RawRecord{
		DateText:        "February 14, 2026",
		StatusText:      "Accepted on 14 Feb",
		DegreeText:      "PhD",
		ProgramText:     "Computer Science at Stanford University",
		GPAText:         "3.95/4.0",
		GREQuantText:    "170",
		GREVerbalText:   "165V",
		GREAWText:       "5.0",
		CommentsText:    "<p>Great   news!</p>",
		TermText:        "Fall 2026",
		NationalityText: "International",
		EntryURL:        "  https://www.thegradcafe.com/result/1001 ",
		EntryLink:       "https://www.thegradcafe.com/result/1001",
	}

	record, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	date, _ := applicant.NewDate(2026, 2, 14)
	expected := applicant.Record{
		EntryURL:    "https://www.thegradcafe.com/result/1001",
		EntryLink:   applicant.Known("https://www.thegradcafe.com/result/1001"),
		Program:     applicant.Known("Computer Science"),
		University:  applicant.Known("Stanford University"),
		Degree:      applicant.Known(applicant.DegreePhD),
		Status:      applicant.Known(applicant.StatusAccepted),
		Term:        applicant.Known(applicant.Term{Season: applicant.SeasonFall, Year: 2026}),
		Nationality: applicant.Known(applicant.NationalityInternational),
		DateAdded:   applicant.Known(date),
		GPA:         applicant.Known(3.95),
		GREQuant:    applicant.Known(170),
		GREVerbal:   applicant.Known(165),
		GREAW:       applicant.Known(5.0),
		Comments:    applicant.Known("Great news!"),
	}

	if diff := cmp.Diff(expected, record, cmp.AllowUnexported(
		applicant.Value[string]{}, applicant.Value[applicant.Degree]{}, applicant.Value[applicant.Status]{},
		applicant.Value[applicant.Term]{}, applicant.Value[applicant.Nationality]{}, applicant.Value[applicant.Date]{},
		applicant.Value[float64]{}, applicant.Value[int]{},
	)); diff != "" {
		t.Errorf("Normalize mismatch (-expected +got):\n%s", diff)
	}
}

func TestNormalize_EmptyFieldsAreUnknown(t *testing.T) {
	record, err := Normalize(applicant.RawRecord{EntryURL: "https://x/1"})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if record.Program.IsKnown() || record.University.IsKnown() || record.GPA.IsKnown() ||
		record.DateAdded.IsKnown() || record.Comments.IsKnown() || record.Degree.IsKnown() {
		t.Errorf("Expected every optional field to be unknown, got %+v", record)
	}
}

func TestNormalize_MissingIdentity(t *testing.T) {
	for _, url := range []string{"", "   "} {
		_, err := Normalize(applicant.RawRecord{EntryURL: url, ProgramText: "Physics"})
		if !errors.Is(err, ErrMissingIdentity) {
			t.Errorf("Expected ErrMissingIdentity for %q, got: %v", url, err)
		}
	}
}

func TestNormalizeBatch(t *testing.T) {
	raws := []applicant.RawRecord{
		{EntryURL: "https://x/1", ProgramText: "First"},
		{ProgramText: "No identity"},
		{EntryURL: "https://x/2", ProgramText: "Second"},
	}

	records, rejected := NormalizeBatch(raws)

	if rejected != 1 {
		t.Errorf("Expected 1 rejected record, got %d", rejected)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].EntryURL != "https://x/1" || records[1].EntryURL != "https://x/2" {
		t.Errorf("Expected input order to be preserved, got %s, %s", records[0].EntryURL, records[1].EntryURL)
	}
}
