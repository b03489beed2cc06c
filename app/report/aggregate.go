package report

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

type predicate func(applicant.Stored) bool

func count(records []applicant.Stored, match predicate) int {
	n := 0
	for _, r := range records {
		if match(r) {
			n++
		}
	}
	return n
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// percent is unknown when the denominator is zero.
func percent(numerator, denominator int) applicant.Value[float64] {
	if denominator == 0 {
		return applicant.Unknown[float64]()
	}
	return applicant.Known(round2(float64(numerator) / float64(denominator) * 100))
}

// average skips unknown values in both the sum and the count.
func average(records []applicant.Stored, match predicate, field func(applicant.Stored) (float64, bool)) applicant.Value[float64] {
	var (
		sum float64
		n   int
	)
	for _, r := range records {
		if !match(r) {
			continue
		}
		if v, ok := field(r); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return applicant.Unknown[float64]()
	}
	return applicant.Known(round2(sum / float64(n)))
}

type group struct {
	key      string
	total    int
	accepted int
}

// rank orders groups by total descending, then key ascending, and keeps at
// most limit of them. limit <= 0 keeps all.
func rank(groups map[string]*group, limit int) []group {
	ranked := make([]group, 0, len(groups))
	for _, g := range groups {
		ranked = append(ranked, *g)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].total != ranked[j].total {
			return ranked[i].total > ranked[j].total
		}
		return ranked[i].key < ranked[j].key
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// nameMatcher matches free-text names against configured aliases.
type nameMatcher struct {
	patterns []*regexp.Regexp
}

func newNameMatcher(aliases []string) nameMatcher {
	m := nameMatcher{patterns: make([]*regexp.Regexp, 0, len(aliases))}
	for _, alias := range aliases {
		alias = strings.TrimSpace(fold(alias))
		if alias == "" {
			continue
		}
		m.patterns = append(m.patterns, regexp.MustCompile(`\b`+regexp.QuoteMeta(alias)+`\b`))
	}
	return m
}

// Match reports whether any alias occurs in text as a whole word.
func (m nameMatcher) Match(text applicant.Value[string]) bool {
	s, ok := text.Get()
	if !ok {
		return false
	}
	s = fold(s)
	for _, p := range m.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func containsFolded(text applicant.Value[string], needle string) bool {
	s, ok := text.Get()
	if !ok {
		return false
	}
	return strings.Contains(fold(s), fold(needle))
}
