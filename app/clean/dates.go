package clean

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

type dateLayout struct {
	name    string
	pattern *regexp.Regexp
	extract func(m []string) (year int, month time.Month, day int, ok bool)
}

// dateLayouts are tried in order. An ambiguous string such as 03/04/2023 is
// read as month first because that layout comes first. Downstream
// statistics depend on this convention; do not reorder.
var dateLayouts = []dateLayout{
	{
		name:    "MM/DD/YYYY",
		pattern: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`),
		extract: func(m []string) (int, time.Month, int, bool) {
			return atoi(m[3]), time.Month(atoi(m[1])), atoi(m[2]), true
		},
	},
	{
		name:    "YYYY-MM-DD",
		pattern: regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`),
		extract: func(m []string) (int, time.Month, int, bool) {
			return atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]), true
		},
	},
	{
		name:    "DD-MM-YYYY",
		pattern: regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`),
		extract: func(m []string) (int, time.Month, int, bool) {
			return atoi(m[3]), time.Month(atoi(m[2])), atoi(m[1]), true
		},
	},
	{
		// Listing pages print "February 14, 2026".
		name:    "Month D, YYYY",
		pattern: regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})$`),
		extract: func(m []string) (int, time.Month, int, bool) {
			month, ok := monthNames[strings.ToLower(m[1])]
			return atoi(m[3]), month, atoi(m[2]), ok
		},
	},
}

var monthNames = func() map[string]time.Month {
	names := make(map[string]time.Month, 24)
	for m := time.January; m <= time.December; m++ {
		full := strings.ToLower(m.String())
		names[full] = m
		names[full[:3]] = m
	}
	names["sept"] = time.September
	return names
}()

// Date returns the first layout under which text is both well formed and a
// real calendar day.
func Date(text string) applicant.Value[applicant.Date] {
	text = strings.TrimSpace(text)
	if text == "" {
		return applicant.Unknown[applicant.Date]()
	}
	for _, layout := range dateLayouts {
		m := layout.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		year, month, day, ok := layout.extract(m)
		if !ok {
			continue
		}
		if d, ok := applicant.NewDate(year, month, day); ok {
			return applicant.Known(d)
		}
	}
	return applicant.Unknown[applicant.Date]()
}

// atoi is only fed digit runs matched above.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
