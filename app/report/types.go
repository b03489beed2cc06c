package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

type Kind string

const (
	KindCount   Kind = "count"
	KindPercent Kind = "percent"
	KindAverage Kind = "average"
)

// Metric is one number of a statistic. Percentages and averages are already
// rounded to two decimals.
type Metric struct {
	Label string
	Kind  Kind
	Value applicant.Value[float64]
}

// Text renders the metric for display. Percentages and averages always show
// two decimals.
func (m Metric) Text() string {
	v, ok := m.Value.Get()
	if !ok {
		return "unknown"
	}
	switch m.Kind {
	case KindCount:
		return fmt.Sprintf("%.0f", v)
	case KindPercent:
		return fmt.Sprintf("%.2f%%", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func (m Metric) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Label string                   `json:"label"`
		Kind  Kind                     `json:"kind"`
		Value applicant.Value[float64] `json:"value"`
		Text  string                   `json:"text"`
	}{m.Label, m.Kind, m.Value, m.Text()})
}

// Row is one group of a ranking statistic.
type Row struct {
	Key     string   `json:"key"`
	Metrics []Metric `json:"metrics"`
}

type Statistic struct {
	Key      string   `json:"key"`
	Question string   `json:"question"`
	Metrics  []Metric `json:"metrics,omitempty"`
	Rows     []Row    `json:"rows,omitempty"`
}

type Report struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Total       int         `json:"total"`
	Statistics  []Statistic `json:"statistics"`
}

func (r Report) Statistic(key string) (Statistic, bool) {
	for _, s := range r.Statistics {
		if s.Key == key {
			return s, true
		}
	}
	return Statistic{}, false
}

func countMetric(label string, n int) Metric {
	return Metric{Label: label, Kind: KindCount, Value: applicant.Known(float64(n))}
}

func percentMetric(label string, v applicant.Value[float64]) Metric {
	return Metric{Label: label, Kind: KindPercent, Value: v}
}

func averageMetric(label string, v applicant.Value[float64]) Metric {
	return Metric{Label: label, Kind: KindAverage, Value: v}
}
