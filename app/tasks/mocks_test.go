package tasks

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
	"github.com/lysyi3m/gradcafe-comb/app/database"
)

// MockSource returns a fixed batch, optionally blocking until released
type MockSource struct {
	records []applicant.RawRecord
	err     error
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (m *MockSource) Fetch(ctx context.Context) ([]applicant.RawRecord, error) {
	if m.started != nil {
		m.once.Do(func() { close(m.started) })
	}
	if m.release != nil {
		<-m.release
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

// MockStore implements database.ApplicantStore in memory
type MockStore struct {
	mu        sync.Mutex
	rows      []applicant.Stored
	insertErr error
	listErr   error
	schemaErr error
	namesErr  error
}

var _ database.ApplicantStore = (*MockStore)(nil)

func (m *MockStore) EnsureSchema(ctx context.Context) error {
	return m.schemaErr
}

func (m *MockStore) InsertApplicants(ctx context.Context, records []applicant.Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return 0, m.insertErr
	}

	seen := make(map[string]bool, len(m.rows))
	for _, r := range m.rows {
		seen[r.EntryURL] = true
	}
	inserted := 0
	for _, rec := range records {
		if seen[rec.EntryURL] {
			continue
		}
		seen[rec.EntryURL] = true
		m.rows = append(m.rows, applicant.Stored{Record: rec, ID: int64(len(m.rows) + 1)})
		inserted++
	}
	return inserted, nil
}

func (m *MockStore) ListApplicants(ctx context.Context) ([]applicant.Stored, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]applicant.Stored(nil), m.rows...), nil
}

func (m *MockStore) GetApplicantCount(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

func (m *MockStore) SetStandardNames(ctx context.Context, names []applicant.StandardName) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.namesErr != nil {
		return 0, m.namesErr
	}

	updated := 0
	for _, name := range names {
		for i := range m.rows {
			if m.rows[i].EntryURL == name.EntryURL {
				m.rows[i].StdProgram = name.Program
				m.rows[i].StdUniversity = name.University
				updated++
			}
		}
	}
	return updated, nil
}

func newSQLiteStore(t *testing.T) *database.ApplicantRepository {
	t.Helper()

	db, err := database.NewConnection(database.DriverSQLite, database.SQLiteDSN(filepath.Join(t.TempDir(), "applicants.db")))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return database.NewApplicantRepository(db)
}

// MockImportSource returns a fixed import batch
type MockImportSource struct {
	batch Import
	err   error
}

func (m *MockImportSource) Load(ctx context.Context) (Import, error) {
	return m.batch, m.err
}
