package api

import (
	_ "embed"
	"html/template"
	"strings"

	"github.com/lysyi3m/gradcafe-comb/app/report"
)

const dashboardTemplateName = "dashboard"

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTemplate = template.Must(template.New(dashboardTemplateName).Funcs(template.FuncMap{
	"answer": answer,
}).Parse(dashboardHTML))

// answer renders the metrics of a statistic on one line.
func answer(metrics []report.Metric) string {
	parts := make([]string, 0, len(metrics))
	for _, m := range metrics {
		parts = append(parts, m.Label+": "+m.Text())
	}
	return strings.Join(parts, ", ")
}
