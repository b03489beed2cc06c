package clean

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

// markup is safe for concurrent use once built.
var markup = bluemonday.StrictPolicy()

// breakTags separate words visually; the strict policy drops them without a
// trace, so they become spaces first.
var breakTags = regexp.MustCompile(`(?i)<\s*/?\s*(?:br|p|div|li|ul|ol|tr|td|th|h[1-6])\b[^>]*>`)

// Text strips tags, decodes entities and collapses whitespace.
func Text(text string) applicant.Value[string] {
	if strings.TrimSpace(text) == "" {
		return applicant.Unknown[string]()
	}
	spaced := breakTags.ReplaceAllString(text, " ")
	// bluemonday re-escapes text nodes, so unescape once afterwards.
	stripped := html.UnescapeString(markup.Sanitize(spaced))
	collapsed := strings.Join(strings.Fields(norm.NFKC.String(stripped)), " ")
	if collapsed == "" {
		return applicant.Unknown[string]()
	}
	return applicant.Known(collapsed)
}

type programPattern struct {
	name  string
	split func(text string) (program, university string, ok bool)
}

var (
	atPattern     = regexp.MustCompile(`(?i)^(.+?)\s+at\s+(.+)$`)
	parensPattern = regexp.MustCompile(`^(.+?)\s*\(([^()]+)\)\s*$`)
)

// programPatterns are tried in order: "X at Y", "X (Y)", "X, Y".
var programPatterns = []programPattern{
	{name: "at", split: func(text string) (string, string, bool) {
		return submatchPair(atPattern, text)
	}},
	{name: "parenthesized", split: func(text string) (string, string, bool) {
		return submatchPair(parensPattern, text)
	}},
	{name: "comma", split: func(text string) (string, string, bool) {
		return strings.Cut(text, ",")
	}},
}

// JoinProgram produces the "Program at University" form SplitProgram
// reads back.
func JoinProgram(program, university string) string {
	switch {
	case program == "":
		return university
	case university == "":
		return program
	}
	return program + " at " + university
}

// SplitProgram separates a combined "program at university" string. When no
// pattern yields two non-empty halves the whole text is the program.
func SplitProgram(text string) (program, university applicant.Value[string]) {
	cleaned, ok := Text(text).Get()
	if !ok {
		return applicant.Unknown[string](), applicant.Unknown[string]()
	}
	for _, p := range programPatterns {
		left, right, matched := p.split(cleaned)
		if !matched {
			continue
		}
		left, right = strings.TrimSpace(left), strings.TrimSpace(right)
		if left != "" && right != "" {
			return applicant.Known(left), applicant.Known(right)
		}
	}
	return applicant.Known(cleaned), applicant.Unknown[string]()
}

func submatchPair(re *regexp.Regexp, text string) (string, string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
