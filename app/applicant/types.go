package applicant

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one listing entry as delivered by the fetch/parse step.
// Empty strings mean the field was absent on the page.
type RawRecord struct {
	DateText        string `json:"date_text,omitempty"`
	StatusText      string `json:"status_text,omitempty"`
	DegreeText      string `json:"degree_text,omitempty"`
	ProgramText     string `json:"program_text,omitempty"` // program and university mixed
	GPAText         string `json:"gpa_text,omitempty"`
	GREQuantText    string `json:"gre_quant_text,omitempty"`
	GREVerbalText   string `json:"gre_verbal_text,omitempty"`
	GREAWText       string `json:"gre_aw_text,omitempty"`
	CommentsText    string `json:"comments_text,omitempty"`
	TermText        string `json:"term_text,omitempty"`
	NationalityText string `json:"nationality_text,omitempty"`
	EntryURL        string `json:"entry_url,omitempty"`
	EntryLink       string `json:"entry_link,omitempty"`
}

// Record is the normalized form of a RawRecord. EntryURL is the identity
// key and is never empty for a record produced by the normalizer.
type Record struct {
	EntryURL    string             `json:"entry_url"`
	EntryLink   Value[string]      `json:"entry_link"`
	Program     Value[string]      `json:"program"`
	University  Value[string]      `json:"university"`
	Degree      Value[Degree]      `json:"degree"`
	Status      Value[Status]      `json:"status"`
	Term        Value[Term]        `json:"term"`
	Nationality Value[Nationality] `json:"nationality"`
	DateAdded   Value[Date]        `json:"date_added"`
	GPA         Value[float64]     `json:"gpa"`
	GREQuant    Value[int]         `json:"gre_quant"`
	GREVerbal   Value[int]         `json:"gre_verbal"`
	GREAW       Value[float64]     `json:"gre_aw"`
	Comments    Value[string]      `json:"comments"`
}

// Stored is a Record as read back from the applicants table. The
// standardized names are written by the name canonicalization service,
// never by ingestion.
type Stored struct {
	Record
	ID            int64         `json:"id"`
	StdProgram    Value[string] `json:"std_program"`
	StdUniversity Value[string] `json:"std_university"`
	CreatedAt     time.Time     `json:"created_at"`
}

// StandardName is the canonical program and university of one entry as
// resolved by the name canonicalization service.
type StandardName struct {
	EntryURL   string        `json:"entry_url"`
	Program    Value[string] `json:"program"`
	University Value[string] `json:"university"`
}

type Degree string

const (
	DegreeMS    Degree = "MS"
	DegreePhD   Degree = "PhD"
	DegreeMBA   Degree = "MBA"
	DegreeMD    Degree = "MD"
	DegreeOther Degree = "Other"
)

var degrees = []Degree{DegreeMS, DegreePhD, DegreeMBA, DegreeMD, DegreeOther}

// ParseDegree accepts only canonical names, as stored in the database.
func ParseDegree(s string) (Degree, bool) {
	for _, d := range degrees {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

type Status string

const (
	StatusAccepted   Status = "Accepted"
	StatusRejected   Status = "Rejected"
	StatusWaitlisted Status = "Waitlisted"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusAccepted, StatusRejected, StatusWaitlisted:
		return Status(s), true
	}
	return "", false
}

type Nationality string

const (
	NationalityInternational Nationality = "International"
	NationalityAmerican      Nationality = "American"
)

func ParseNationality(s string) (Nationality, bool) {
	switch Nationality(s) {
	case NationalityInternational, NationalityAmerican:
		return Nationality(s), true
	}
	return "", false
}

type Season string

const (
	SeasonFall   Season = "Fall"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonWinter Season = "Winter"
)

// Term is an admission semester such as "Fall 2026".
type Term struct {
	Season Season
	Year   int
}

func (t Term) String() string {
	return fmt.Sprintf("%s %d", t.Season, t.Year)
}

func (t Term) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *Term) UnmarshalText(text []byte) error {
	parsed, ok := ParseTerm(string(text))
	if !ok {
		return fmt.Errorf("invalid term %q, expected e.g. \"Fall 2026\"", text)
	}
	*t = parsed
	return nil
}

// ParseTerm reads the canonical "Season YYYY" form produced by String.
func ParseTerm(s string) (Term, bool) {
	season, year, ok := strings.Cut(s, " ")
	if !ok {
		return Term{}, false
	}
	switch Season(season) {
	case SeasonFall, SeasonSpring, SeasonSummer, SeasonWinter:
	default:
		return Term{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil || len(year) != 4 {
		return Term{}, false
	}
	return Term{Season: Season(season), Year: y}, true
}

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns false when the components do not name a real day
// (Feb 30, month 13 and so on).
func NewDate(year int, month time.Month, day int) (Date, bool) {
	if year < 1 || year > 9999 || month < time.January || month > time.December || day < 1 {
		return Date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, false
	}
	return Date{Year: year, Month: month, Day: day}, true
}

// ParseISODate reads YYYY-MM-DD.
func ParseISODate(s string) (Date, bool) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, false
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}
