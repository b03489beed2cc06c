package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
	"github.com/lysyi3m/gradcafe-comb/app/database"
)

// Import is a batch of entries exported by the cleaning and name
// canonicalization steps, together with the standardized names resolved
// for them.
type Import struct {
	Records []applicant.RawRecord
	Names   []applicant.StandardName
}

// ImportSource supplies one Import.
type ImportSource interface {
	Load(ctx context.Context) (Import, error)
}

// ImportTask loads an Import like an ingestion run and then writes its
// standardized names. Names are applied to duplicates too, so re-importing
// a refreshed export updates the canonical names of entries already stored.
type ImportTask struct {
	Task
	source ImportSource
	loader *Loader
	store  database.ApplicantStore
}

func NewImportTask(source ImportSource, loader *Loader, store database.ApplicantStore) *ImportTask {
	return &ImportTask{
		Task:   NewTask(TaskTypeImport),
		source: source,
		loader: loader,
		store:  store,
	}
}

func (t *ImportTask) Execute(ctx context.Context) (RunResult, error) {
	result := t.result()

	batch, err := t.source.Load(ctx)
	if err != nil {
		return t.fail(result, fmt.Errorf("failed to read import: %w", err))
	}

	if err := loadRaw(ctx, t.loader, batch.Records, &result); err != nil {
		return t.fail(result, err)
	}

	updated, err := t.store.SetStandardNames(ctx, standardNames(batch.Names))
	if err != nil {
		return t.fail(result, fmt.Errorf("%w: failed to write standard names: %w", ErrStoreUnavailable, err))
	}
	result.Standardized = updated

	return t.complete(result), nil
}

// standardNames drops names without an entry URL or without any known
// value, and trims URLs the way the record normalizer does.
func standardNames(names []applicant.StandardName) []applicant.StandardName {
	kept := make([]applicant.StandardName, 0, len(names))
	for _, name := range names {
		name.EntryURL = strings.TrimSpace(name.EntryURL)
		if name.EntryURL == "" {
			continue
		}
		if !name.Program.IsKnown() && !name.University.IsKnown() {
			continue
		}
		kept = append(kept, name)
	}
	return kept
}
