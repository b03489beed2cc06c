package clean

import (
	"errors"
	"strings"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

// ErrMissingIdentity rejects a raw record without an entry URL.
var ErrMissingIdentity = errors.New("raw record has no entry_url")

// Normalize maps one raw listing entry to its typed form. Field level parse
// failures become unknown values; only a missing identity is an error.
func Normalize(raw applicant.RawRecord) (applicant.Record, error) {
	entryURL := strings.TrimSpace(raw.EntryURL)
	if entryURL == "" {
		return applicant.Record{}, ErrMissingIdentity
	}

	program, university := SplitProgram(raw.ProgramText)

	return applicant.Record{
		EntryURL:    entryURL,
		EntryLink:   Text(raw.EntryLink),
		Program:     program,
		University:  university,
		Degree:      Degree(raw.DegreeText),
		Status:      Status(raw.StatusText),
		Term:        Term(raw.TermText),
		Nationality: Nationality(raw.NationalityText),
		DateAdded:   Date(raw.DateText),
		GPA:         GPA(raw.GPAText),
		GREQuant:    GREScore(raw.GREQuantText),
		GREVerbal:   GREScore(raw.GREVerbalText),
		GREAW:       GREWriting(raw.GREAWText),
		Comments:    Text(raw.CommentsText),
	}, nil
}

// NormalizeBatch keeps input order and counts the records it had to drop.
func NormalizeBatch(raws []applicant.RawRecord) (records []applicant.Record, rejected int) {
	records = make([]applicant.Record, 0, len(raws))
	for _, raw := range raws {
		record, err := Normalize(raw)
		if err != nil {
			rejected++
			continue
		}
		records = append(records, record)
	}
	return records, rejected
}
