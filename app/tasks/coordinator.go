package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/gradcafe-comb/app/database"
	"github.com/lysyi3m/gradcafe-comb/app/metrics"
	"github.com/lysyi3m/gradcafe-comb/app/report"
)

// Snapshot is the coordinator state exposed to the serving layer.
type Snapshot struct {
	State   State
	LastRun *RunResult
}

// Coordinator is the entry point for ingestion and report requests. Both
// paths share one Gate: a report is refused while a run is in flight.
type Coordinator struct {
	gate     Gate
	source   Source
	loader   *Loader
	store    database.ApplicantStore
	settings report.Settings

	mu      sync.RWMutex
	lastRun *RunResult
}

func NewCoordinator(source Source, store database.ApplicantStore, settings report.Settings) *Coordinator {
	return &Coordinator{
		source:   source,
		loader:   NewLoader(store),
		store:    store,
		settings: settings,
	}
}

// RequestIngestion runs fetch, normalize and load under the gate. It returns
// ErrBusy without doing anything when another run holds the gate. The run
// itself ignores cancellation of ctx; once started it goes to completion or
// failure.
func (c *Coordinator) RequestIngestion(ctx context.Context) (RunResult, error) {
	return c.run(ctx, func(ctx context.Context) (RunResult, error) {
		task := NewIngestTask(c.source, c.loader)
		task.Start()
		return task.Execute(ctx)
	})
}

// RequestImport loads an exported batch and its standardized names. It
// shares the gate with RequestIngestion, so the two never overlap.
func (c *Coordinator) RequestImport(ctx context.Context, source ImportSource) (RunResult, error) {
	return c.run(ctx, func(ctx context.Context) (RunResult, error) {
		task := NewImportTask(source, c.loader, c.store)
		task.Start()
		return task.Execute(ctx)
	})
}

func (c *Coordinator) run(ctx context.Context, execute func(ctx context.Context) (RunResult, error)) (RunResult, error) {
	var result RunResult
	err := c.gate.Run(func() error {
		var runErr error
		result, runErr = execute(context.WithoutCancel(ctx))
		c.recordRun(result)
		return runErr
	})

	switch {
	case errors.Is(err, ErrBusy):
		slog.Info("Ingestion request rejected", "reason", "busy")
		metrics.CounterIngestionRuns.WithLabelValues(metrics.OutcomeBusy).Inc()
	case err != nil:
		metrics.CounterIngestionRuns.WithLabelValues(metrics.OutcomeFailure).Inc()
	default:
		metrics.CounterIngestionRuns.WithLabelValues(metrics.OutcomeSuccess).Inc()
		metrics.CounterIngestionRecords.WithLabelValues(metrics.RecordInserted).Add(float64(result.Inserted))
		metrics.CounterIngestionRecords.WithLabelValues(metrics.RecordDuplicate).Add(float64(result.Duplicates))
		metrics.CounterIngestionRecords.WithLabelValues(metrics.RecordRejected).Add(float64(result.Skipped))
		metrics.CounterIngestionRecords.WithLabelValues(metrics.RecordStandardized).Add(float64(result.Standardized))
	}

	return result, err
}

// RequestReport computes the statistic catalog over every stored entry, or
// returns ErrBusy while ingestion is running.
//
// The gate is only checked, not held, so a run may start while the report
// reads. The result is still a whole snapshot only because buildReport reads
// with a single SELECT and each write step of a run is one transaction (an
// import's names land in a second one, after its entries). A report that
// issues more than one query must hold the gate or read inside one
// transaction.
func (c *Coordinator) RequestReport(ctx context.Context) (report.Report, error) {
	if c.gate.Running() {
		slog.Info("Report request rejected", "reason", "busy")
		metrics.CounterReportRequests.WithLabelValues(metrics.OutcomeBusy).Inc()
		return report.Report{}, ErrBusy
	}

	rep, err := c.buildReport(ctx)
	if err != nil {
		metrics.CounterReportRequests.WithLabelValues(metrics.OutcomeFailure).Inc()
		return report.Report{}, err
	}

	metrics.CounterReportRequests.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return rep, nil
}

func (c *Coordinator) buildReport(ctx context.Context) (report.Report, error) {
	if err := c.store.EnsureSchema(ctx); err != nil {
		return report.Report{}, fmt.Errorf("%w: failed to ensure schema: %w", ErrStoreUnavailable, err)
	}

	records, err := c.store.ListApplicants(ctx)
	if err != nil {
		return report.Report{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	rep := report.Compute(records, c.settings)
	rep.GeneratedAt = time.Now()

	slog.Debug("Report computed", "records", rep.Total, "statistics", len(rep.Statistics))
	return rep, nil
}

func (c *Coordinator) Status() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := Snapshot{State: c.gate.State()}
	if c.lastRun != nil {
		last := *c.lastRun
		snapshot.LastRun = &last
	}
	return snapshot
}

func (c *Coordinator) recordRun(result RunResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRun = &result
}
