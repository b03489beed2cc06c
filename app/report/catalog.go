package report

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

// definition is one entry of the statistic catalog. New statistics are added
// by appending to catalog.
type definition struct {
	key     string
	compute func(records []applicant.Stored, env environment) Statistic
}

// environment carries the settings plus matchers compiled once per report.
type environment struct {
	Settings
	focusUniversity nameMatcher
	topUniversities nameMatcher
}

var catalog = []definition{
	{"term_applicants", termApplicants},
	{"international_share", internationalShare},
	{"average_scores", averageScores},
	{"american_term_gpa", americanTermGPA},
	{"prior_term_acceptance", priorTermAcceptance},
	{"term_accepted_gpa", termAcceptedGPA},
	{"focus_masters_count", focusMastersCount},
	{"top_universities_phd_accepts", topUniversitiesPhDAccepts},
	{"top_universities_phd_accepts_standardized", topUniversitiesPhDAcceptsStandardized},
	{"top_programs", topPrograms},
	{"acceptance_by_degree", acceptanceByDegree},
}

// Compute evaluates the whole catalog over records. It has no side effects;
// GeneratedAt is left for the caller to stamp.
func Compute(records []applicant.Stored, settings Settings) Report {
	env := environment{
		Settings:        settings,
		focusUniversity: newNameMatcher(settings.FocusUniversity),
		topUniversities: newNameMatcher(settings.TopUniversities),
	}

	stats := make([]Statistic, 0, len(catalog))
	for _, def := range catalog {
		stat := def.compute(records, env)
		stat.Key = def.key
		stats = append(stats, stat)
	}

	return Report{Total: len(records), Statistics: stats}
}

func inTerm(term applicant.Term) predicate {
	return func(r applicant.Stored) bool {
		t, ok := r.Term.Get()
		return ok && t == term
	}
}

func hasStatus(status applicant.Status) predicate {
	return func(r applicant.Stored) bool {
		s, ok := r.Status.Get()
		return ok && s == status
	}
}

func hasDegree(degree applicant.Degree) predicate {
	return func(r applicant.Stored) bool {
		d, ok := r.Degree.Get()
		return ok && d == degree
	}
}

func hasNationality(n applicant.Nationality) predicate {
	return func(r applicant.Stored) bool {
		v, ok := r.Nationality.Get()
		return ok && v == n
	}
}

func inYear(year int) predicate {
	return func(r applicant.Stored) bool {
		t, ok := r.Term.Get()
		return ok && t.Year == year
	}
}

func all(preds ...predicate) predicate {
	return func(r applicant.Stored) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

func gpa(r applicant.Stored) (float64, bool) {
	return r.GPA.Get()
}

func intField(get func(applicant.Stored) applicant.Value[int]) func(applicant.Stored) (float64, bool) {
	return func(r applicant.Stored) (float64, bool) {
		v, ok := get(r).Get()
		return float64(v), ok
	}
}

func termApplicants(records []applicant.Stored, env environment) Statistic {
	return Statistic{
		Question: fmt.Sprintf("How many entries applied for %s?", env.TargetTerm),
		Metrics:  []Metric{countMetric("Applicants", count(records, inTerm(env.TargetTerm)))},
	}
}

func internationalShare(records []applicant.Stored, env environment) Statistic {
	international := count(records, hasNationality(applicant.NationalityInternational))
	american := count(records, hasNationality(applicant.NationalityAmerican))
	return Statistic{
		Question: "What percentage of entries are from international students?",
		Metrics: []Metric{
			percentMetric("International", percent(international, len(records))),
			countMetric("International count", international),
			countMetric("American count", american),
		},
	}
}

func averageScores(records []applicant.Stored, env environment) Statistic {
	everyone := func(applicant.Stored) bool { return true }
	return Statistic{
		Question: "What is the average GPA, GRE, GRE V and GRE AW of applicants who provide them?",
		Metrics: []Metric{
			averageMetric("GPA", average(records, everyone, gpa)),
			averageMetric("GRE Q", average(records, everyone, intField(func(r applicant.Stored) applicant.Value[int] { return r.GREQuant }))),
			averageMetric("GRE V", average(records, everyone, intField(func(r applicant.Stored) applicant.Value[int] { return r.GREVerbal }))),
			averageMetric("GRE AW", average(records, everyone, func(r applicant.Stored) (float64, bool) { return r.GREAW.Get() })),
		},
	}
}

func americanTermGPA(records []applicant.Stored, env environment) Statistic {
	match := all(inTerm(env.TargetTerm), hasNationality(applicant.NationalityAmerican))
	return Statistic{
		Question: fmt.Sprintf("What is the average GPA of American students in %s?", env.TargetTerm),
		Metrics:  []Metric{averageMetric("GPA", average(records, match, gpa))},
	}
}

func priorTermAcceptance(records []applicant.Stored, env environment) Statistic {
	total := count(records, inTerm(env.PriorTerm))
	accepted := count(records, all(inTerm(env.PriorTerm), hasStatus(applicant.StatusAccepted)))
	return Statistic{
		Question: fmt.Sprintf("What percent of entries for %s are Acceptances?", env.PriorTerm),
		Metrics: []Metric{
			percentMetric("Accepted", percent(accepted, total)),
			countMetric("Entries", total),
			countMetric("Acceptances", accepted),
		},
	}
}

func termAcceptedGPA(records []applicant.Stored, env environment) Statistic {
	match := all(inTerm(env.TargetTerm), hasStatus(applicant.StatusAccepted))
	return Statistic{
		Question: fmt.Sprintf("What is the average GPA of applicants who applied for %s and are Acceptances?", env.TargetTerm),
		Metrics:  []Metric{averageMetric("GPA", average(records, match, gpa))},
	}
}

func focusMastersCount(records []applicant.Stored, env environment) Statistic {
	match := func(r applicant.Stored) bool {
		return hasDegree(applicant.DegreeMS)(r) &&
			containsFolded(r.Program, env.FocusProgram) &&
			universityMatches(env.focusUniversity, r.Record)
	}
	return Statistic{
		Question: fmt.Sprintf("How many entries applied to %s for a masters degree in %s?",
			strings.Join(env.FocusUniversity, " / "), env.FocusProgram),
		Metrics: []Metric{countMetric("Entries", count(records, match))},
	}
}

func topUniversitiesPhDAccepts(records []applicant.Stored, env environment) Statistic {
	match := func(r applicant.Stored) bool {
		return phdAcceptedInYear(env, r) &&
			containsFolded(r.Program, env.FocusProgram) &&
			universityMatches(env.topUniversities, r.Record)
	}
	return Statistic{
		Question: fmt.Sprintf("How many entries from %d are Acceptances to %s for a PhD in %s?",
			env.TargetYear, strings.Join(env.TopUniversities, ", "), env.FocusProgram),
		Metrics: []Metric{countMetric("Entries", count(records, match))},
	}
}

func topUniversitiesPhDAcceptsStandardized(records []applicant.Stored, env environment) Statistic {
	match := func(r applicant.Stored) bool {
		return phdAcceptedInYear(env, r) &&
			containsFolded(r.StdProgram, env.FocusProgram) &&
			env.topUniversities.Match(r.StdUniversity)
	}
	return Statistic{
		Question: fmt.Sprintf("Using standardized names, how many entries from %d are Acceptances to %s for a PhD in %s?",
			env.TargetYear, strings.Join(env.TopUniversities, ", "), env.FocusProgram),
		Metrics: []Metric{countMetric("Entries", count(records, match))},
	}
}

func topPrograms(records []applicant.Stored, env environment) Statistic {
	groups := make(map[string]*group)
	for _, r := range records {
		name, ok := r.StdProgram.Get()
		if !ok {
			name, ok = r.Program.Get()
		}
		if !ok {
			continue
		}
		g, exists := groups[name]
		if !exists {
			g = &group{key: name}
			groups[name] = g
		}
		g.total++
	}

	stat := Statistic{Question: fmt.Sprintf("What are the %d most popular programs?", env.TopN)}
	for _, g := range rank(groups, env.TopN) {
		stat.Rows = append(stat.Rows, Row{Key: g.key, Metrics: []Metric{countMetric("Entries", g.total)}})
	}
	return stat
}

func acceptanceByDegree(records []applicant.Stored, env environment) Statistic {
	groups := make(map[string]*group)
	for _, r := range records {
		d, ok := r.Degree.Get()
		if !ok {
			continue
		}
		g, exists := groups[string(d)]
		if !exists {
			g = &group{key: string(d)}
			groups[string(d)] = g
		}
		g.total++
		if hasStatus(applicant.StatusAccepted)(r) {
			g.accepted++
		}
	}

	stat := Statistic{Question: "What is the acceptance rate for each degree type?"}
	for _, g := range rank(groups, 0) {
		stat.Rows = append(stat.Rows, Row{
			Key: g.key,
			Metrics: []Metric{
				countMetric("Entries", g.total),
				countMetric("Acceptances", g.accepted),
				percentMetric("Acceptance rate", percent(g.accepted, g.total)),
			},
		})
	}
	return stat
}

func phdAcceptedInYear(env environment, r applicant.Stored) bool {
	return all(inYear(env.TargetYear), hasStatus(applicant.StatusAccepted), hasDegree(applicant.DegreePhD))(r)
}

// universityMatches falls back to the program text when the university could
// not be split out of it.
func universityMatches(m nameMatcher, r applicant.Record) bool {
	if r.University.IsKnown() {
		return m.Match(r.University)
	}
	return m.Match(r.Program)
}
