package clean

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

// numberPattern matches the first decimal-looking token, sign included.
var numberPattern = regexp.MustCompile(`-?(?:\d+(?:\.\d*)?|\.\d+)`)

var exponentPattern = regexp.MustCompile(`^[eE][-+]?\d`)

type scoreRange struct {
	min, max float64
}

var (
	gpaRange        = scoreRange{0, 4.0}
	greSectionRange = scoreRange{0, 170}
	greLegacyRange  = scoreRange{0, 800}
	greWritingRange = scoreRange{0, 6}
)

func (r scoreRange) contains(v float64) bool {
	return v >= r.min && v <= r.max
}

type matchRule[T any] struct {
	pattern string
	value   T
}

// Checked in order, first hit wins. "master" and the professional
// masters (MSW, MPH, MPP) must come before the bare two-letter abbreviations.
var degreeRules = []matchRule[applicant.Degree]{
	{"phd", applicant.DegreePhD},
	{"ph.d", applicant.DegreePhD},
	{"doctor of philosophy", applicant.DegreePhD},
	{"mba", applicant.DegreeMBA},
	{"business administration", applicant.DegreeMBA},
	{"psy.d", applicant.DegreeOther},
	{"ed.d", applicant.DegreeOther},
	{"m.d.", applicant.DegreeMD},
	{"doctor of medicine", applicant.DegreeMD},
	{"master", applicant.DegreeMS},
	{"msw", applicant.DegreeOther},
	{"mph", applicant.DegreeOther},
	{"mpp", applicant.DegreeOther},
	{"msc", applicant.DegreeMS},
	{"m.s.", applicant.DegreeMS},
	{"m.eng", applicant.DegreeMS},
	{"meng", applicant.DegreeMS},
	{"ms", applicant.DegreeMS},
	{"md", applicant.DegreeMD},
	{"psyd", applicant.DegreeOther},
	{"edd", applicant.DegreeOther},
	{"jd", applicant.DegreeOther},
	{"mfa", applicant.DegreeOther},
	{"ma", applicant.DegreeOther},
	{"other", applicant.DegreeOther},
}

var statusRules = []matchRule[applicant.Status]{
	{"accept", applicant.StatusAccepted},
	{"reject", applicant.StatusRejected},
	{"waitlist", applicant.StatusWaitlisted},
	{"wait list", applicant.StatusWaitlisted},
	{"wait-list", applicant.StatusWaitlisted},
}

var nationalityRules = []matchRule[applicant.Nationality]{
	{"international", applicant.NationalityInternational},
	{"american", applicant.NationalityAmerican},
	{"domestic", applicant.NationalityAmerican},
}

var termPattern = regexp.MustCompile(`(?i)\b(fall|spring|summer|winter)\s*'?(\d{4})\b`)

// GPA takes the numerator of "3.95/4.0" style text.
func GPA(text string) applicant.Value[float64] {
	numerator, _, _ := strings.Cut(text, "/")
	v, ok := firstNumber(numerator)
	if !ok || !gpaRange.contains(v) {
		return applicant.Unknown[float64]()
	}
	return applicant.Known(v)
}

// GREScore parses a quantitative or verbal section score. Section letters
// around the number are ignored. Scores on the pre-2011 scale pass through
// as they are.
func GREScore(text string) applicant.Value[int] {
	v, ok := firstNumber(text)
	if !ok || v != float64(int(v)) {
		return applicant.Unknown[int]()
	}
	if !greSectionRange.contains(v) && !greLegacyRange.contains(v) {
		return applicant.Unknown[int]()
	}
	return applicant.Known(int(v))
}

// GREWriting parses an analytical writing score.
func GREWriting(text string) applicant.Value[float64] {
	v, ok := firstNumber(text)
	if !ok || !greWritingRange.contains(v) {
		return applicant.Unknown[float64]()
	}
	return applicant.Known(v)
}

func Degree(text string) applicant.Value[applicant.Degree] {
	return firstMatch(text, degreeRules)
}

func Status(text string) applicant.Value[applicant.Status] {
	return firstMatch(text, statusRules)
}

func Nationality(text string) applicant.Value[applicant.Nationality] {
	return firstMatch(text, nationalityRules)
}

// Term finds a "Fall 2026" style semester anywhere in text.
func Term(text string) applicant.Value[applicant.Term] {
	m := termPattern.FindStringSubmatch(text)
	if m == nil {
		return applicant.Unknown[applicant.Term]()
	}
	year, err := strconv.Atoi(m[2])
	if err != nil || year < 1900 {
		return applicant.Unknown[applicant.Term]()
	}
	season := cases.Title(language.English).String(m[1])
	return applicant.Known(applicant.Term{Season: applicant.Season(season), Year: year})
}

func firstMatch[T any](text string, rules []matchRule[T]) applicant.Value[T] {
	folded := fold(text)
	if strings.TrimSpace(folded) == "" {
		return applicant.Unknown[T]()
	}
	for _, rule := range rules {
		if strings.Contains(folded, rule.pattern) {
			return applicant.Known(rule.value)
		}
	}
	return applicant.Unknown[T]()
}

// firstNumber returns the first numeric token in text. A minus sign glued
// to a preceding letter or digit ("GPA-3.5", "3.5-3.8") is a separator,
// not a sign. Exponent notation ("1e5") is not a score.
func firstNumber(text string) (float64, bool) {
	loc := numberPattern.FindStringIndex(text)
	if loc == nil {
		return 0, false
	}
	if exponentPattern.MatchString(text[loc[1]:]) {
		return 0, false
	}
	token := text[loc[0]:loc[1]]
	if strings.HasPrefix(token, "-") && loc[0] > 0 {
		prev := rune(text[loc[0]-1])
		if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
			token = token[1:]
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(token, "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// fold builds a Caser per call; casers keep state and are not safe to share.
func fold(s string) string {
	return cases.Fold().String(s)
}
