package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
	"github.com/lysyi3m/gradcafe-comb/app/database"
)

// ErrStoreUnavailable marks a batch that could not be persisted. Nothing
// from that batch is written.
var ErrStoreUnavailable = errors.New("applicant store unavailable")

type LoadResult struct {
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
}

// Loader persists normalized records without ever duplicating an entry_url.
// Duplicate detection is left to the unique constraint in the store so it
// holds against writers outside this process too.
type Loader struct {
	store database.ApplicantStore
}

func NewLoader(store database.ApplicantStore) *Loader {
	return &Loader{store: store}
}

func (l *Loader) Load(ctx context.Context, records []applicant.Record) (LoadResult, error) {
	var result LoadResult

	if err := l.store.EnsureSchema(ctx); err != nil {
		return result, fmt.Errorf("%w: failed to ensure schema: %w", ErrStoreUnavailable, err)
	}

	valid := make([]applicant.Record, 0, len(records))
	for _, rec := range records {
		if strings.TrimSpace(rec.EntryURL) == "" {
			result.Rejected++
			continue
		}
		valid = append(valid, rec)
	}

	inserted, err := l.store.InsertApplicants(ctx, valid)
	if err != nil {
		return LoadResult{Rejected: result.Rejected}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	result.Inserted = inserted
	result.Duplicates = len(valid) - inserted
	return result, nil
}
