package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	MetricIngestionRuns    = "ingestion_runs_total"
	MetricIngestionRecords = "ingestion_records_total"
	MetricReportRequests   = "report_requests_total"
)

// Outcome label values shared by the run and report counters.
const (
	OutcomeSuccess = "success"
	OutcomeBusy    = "busy"
	OutcomeFailure = "failure"
)

// Result label values for the record counter.
const (
	RecordInserted     = "inserted"
	RecordDuplicate    = "duplicate"
	RecordRejected     = "rejected"
	RecordStandardized = "standardized"
)

var CounterIngestionRuns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gradcafe",
		Name:      MetricIngestionRuns,
		Help:      "Ingestion requests by outcome.",
	},
	[]string{
		"outcome",
	},
)

var CounterIngestionRecords = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gradcafe",
		Name:      MetricIngestionRecords,
		Help:      "Fetched listing entries by what ingestion did with them.",
	},
	[]string{
		"result",
	},
)

var CounterReportRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "gradcafe",
		Name:      MetricReportRequests,
		Help:      "Report requests by outcome.",
	},
	[]string{
		"outcome",
	},
)

func init() {
	prometheus.MustRegister(CounterIngestionRuns)
	prometheus.MustRegister(CounterIngestionRecords)
	prometheus.MustRegister(CounterReportRequests)
}
