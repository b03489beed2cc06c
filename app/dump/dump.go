package dump

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
	"github.com/lysyi3m/gradcafe-comb/app/clean"
	"github.com/lysyi3m/gradcafe-comb/app/tasks"
)

var _ tasks.ImportSource = (*File)(nil)

// Entry is one applicant of the JSON export written by the cleaning and
// name canonicalization steps. Older exports spell some keys differently;
// both spellings are read.
type Entry struct {
	Program           string `json:"program"`
	University        string `json:"university"`
	Degree            string `json:"degree"`
	Status            string `json:"status"`
	DateAdded         string `json:"date_added"`
	Date              string `json:"date"`
	GPA               Text   `json:"gpa"`
	GREQuant          Text   `json:"gre_quantitative"`
	GRE               Text   `json:"gre"`
	GREVerbal         Text   `json:"gre_verbal"`
	GREV              Text   `json:"gre_v"`
	GREAW             Text   `json:"gre_aw"`
	Comments          string `json:"comments"`
	URL               string `json:"url"`
	EntryLink         string `json:"entry_link"`
	SemesterYear      string `json:"semester_year"`
	Term              string `json:"term"`
	USOrInternational string `json:"us_or_international"`
	International     Text   `json:"international"`
	StdProgram        string `json:"llm_generated_program"`
	StdUniversity     string `json:"llm_generated_university"`
}

// Text accepts a JSON string, number or boolean and keeps its text form.
// null leaves it empty.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		return fmt.Errorf("expected a scalar, got %s", data)
	default:
		*t = Text(data)
	}
	return nil
}

// Decode reads a JSON array of entries.
func Decode(r io.Reader) (tasks.Import, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return tasks.Import{}, fmt.Errorf("failed to decode export: %w", err)
	}

	batch := tasks.Import{
		Records: make([]applicant.RawRecord, 0, len(entries)),
		Names:   make([]applicant.StandardName, 0, len(entries)),
	}
	for _, e := range entries {
		batch.Records = append(batch.Records, e.Raw())
		batch.Names = append(batch.Names, e.StandardName())
	}
	return batch, nil
}

// Raw maps the entry onto the fields the record normalizer reads.
func (e Entry) Raw() applicant.RawRecord {
	return applicant.RawRecord{
		DateText:        first(e.DateAdded, e.Date),
		StatusText:      e.Status,
		DegreeText:      e.Degree,
		ProgramText:     clean.JoinProgram(e.Program, e.University),
		GPAText:         string(e.GPA),
		GREQuantText:    first(string(e.GREQuant), string(e.GRE)),
		GREVerbalText:   first(string(e.GREVerbal), string(e.GREV)),
		GREAWText:       string(e.GREAW),
		CommentsText:    e.Comments,
		TermText:        first(e.SemesterYear, e.Term),
		NationalityText: e.nationality(),
		EntryURL:        e.entryURL(),
		EntryLink:       e.EntryLink,
	}
}

func (e Entry) StandardName() applicant.StandardName {
	return applicant.StandardName{
		EntryURL:   e.entryURL(),
		Program:    clean.Text(e.StdProgram),
		University: clean.Text(e.StdUniversity),
	}
}

func (e Entry) entryURL() string {
	return first(e.URL, e.EntryLink)
}

// nationality prefers the text column; the boolean flag of raw scrapes
// maps true to International and false to American.
func (e Entry) nationality() string {
	if e.USOrInternational != "" {
		return e.USOrInternational
	}
	switch e.International {
	case "true":
		return "International"
	case "false":
		return "American"
	}
	return string(e.International)
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// File is an ImportSource reading an export from disk.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load(ctx context.Context) (tasks.Import, error) {
	if err := ctx.Err(); err != nil {
		return tasks.Import{}, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		return tasks.Import{}, fmt.Errorf("failed to open export: %w", err)
	}
	defer file.Close()

	return Decode(file)
}
