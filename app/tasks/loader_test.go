package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
)

func TestLoader_CountsInsertsAndDuplicates(t *testing.T) {
	store := &MockStore{}
	loader := NewLoader(store)
	batch := []applicant.Record{{EntryURL: "https://x/1"}, {EntryURL: "https://x/2"}}

	result, err := loader.Load(context.Background(), batch)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Inserted != 2 || result.Duplicates != 0 {
		t.Errorf("Expected 2 inserted and 0 duplicates, got %+v", result)
	}

	result, err = loader.Load(context.Background(), batch)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Inserted != 0 || result.Duplicates != 2 {
		t.Errorf("Expected 0 inserted and 2 duplicates on reload, got %+v", result)
	}
}

func TestLoader_RejectsMissingIdentityPerRecord(t *testing.T) {
	store := &MockStore{}
	loader := NewLoader(store)

	result, err := loader.Load(context.Background(), []applicant.Record{
		{EntryURL: "https://x/1"},
		{EntryURL: "  "},
		{EntryURL: "https://x/2"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Rejected != 1 || result.Inserted != 2 {
		t.Errorf("Expected 1 rejected and 2 inserted, got %+v", result)
	}
}

func TestLoader_StoreFailure(t *testing.T) {
	cause := errors.New("connection refused")

	tests := map[string]*MockStore{
		"insert": {insertErr: cause},
		"schema": {schemaErr: cause},
	}
	for name, store := range tests {
		_, err := NewLoader(store).Load(context.Background(), []applicant.Record{{EntryURL: "https://x/1"}})
		if !errors.Is(err, ErrStoreUnavailable) {
			t.Errorf("%s: expected ErrStoreUnavailable, got: %v", name, err)
		}
		if !errors.Is(err, cause) {
			t.Errorf("%s: expected the store error to be wrapped, got: %v", name, err)
		}
	}
}

func TestLoader_SQLiteIdempotence(t *testing.T) {
	loader := NewLoader(newSQLiteStore(t))
	ctx := context.Background()
	batch := []applicant.Record{
		{EntryURL: "https://x/1", Program: applicant.Known("Physics")},
		{EntryURL: "https://x/2", Program: applicant.Known("Chemistry")},
	}

	first, err := loader.Load(ctx, batch)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	second, err := loader.Load(ctx, batch)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if first.Inserted != 2 {
		t.Errorf("Expected 2 inserted on first load, got %d", first.Inserted)
	}
	if second.Inserted != 0 || second.Duplicates != 2 {
		t.Errorf("Expected second load to insert nothing, got %+v", second)
	}
}
