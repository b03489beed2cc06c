package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
	"github.com/lysyi3m/gradcafe-comb/app/clean"
)

// Source supplies the raw listing entries of one ingestion run. A short or
// empty result is final; the task does not page or retry.
type Source interface {
	Fetch(ctx context.Context) ([]applicant.RawRecord, error)
}

// RunResult summarizes one ingestion run. Skipped counts entries rejected
// for lacking an entry URL. Standardized is only set by imports.
type RunResult struct {
	RunID        string
	StartedAt    time.Time
	Fetched      int
	Inserted     int
	Duplicates   int
	Skipped      int
	Standardized int
	Duration     time.Duration
	Err          error
}

type IngestTask struct {
	Task
	source Source
	loader *Loader
}

func NewIngestTask(source Source, loader *Loader) *IngestTask {
	return &IngestTask{
		Task:   NewTask(TaskTypeIngest),
		source: source,
		loader: loader,
	}
}

func (t *IngestTask) Execute(ctx context.Context) (RunResult, error) {
	result := t.result()

	raws, err := t.source.Fetch(ctx)
	if err != nil {
		return t.fail(result, fmt.Errorf("failed to fetch listings: %w", err))
	}

	if err := loadRaw(ctx, t.loader, raws, &result); err != nil {
		return t.fail(result, err)
	}

	return t.complete(result), nil
}

// loadRaw normalizes raws and hands them to the loader, filling the counts
// of result.
func loadRaw(ctx context.Context, loader *Loader, raws []applicant.RawRecord, result *RunResult) error {
	result.Fetched = len(raws)

	records, rejected := clean.NormalizeBatch(raws)
	result.Skipped = rejected

	loaded, err := loader.Load(ctx, records)
	result.Skipped += loaded.Rejected
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}
	result.Inserted = loaded.Inserted
	result.Duplicates = loaded.Duplicates
	return nil
}
