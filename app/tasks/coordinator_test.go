package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lysyi3m/gradcafe-comb/app/applicant"
	"github.com/lysyi3m/gradcafe-comb/app/report"
)

func TestCoordinator_SingleFlight(t *testing.T) {
	source := &MockSource{
		records: []applicant.RawRecord{{EntryURL: "https://x/1"}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	coordinator := NewCoordinator(source, &MockStore{}, report.DefaultSettings())

	done := make(chan error, 1)
	go func() {
		_, err := coordinator.RequestIngestion(context.Background())
		done <- err
	}()

	select {
	case <-source.started:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the first run to start")
	}

	if _, err := coordinator.RequestIngestion(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected second ingestion to be rejected with ErrBusy, got: %v", err)
	}
	if _, err := coordinator.RequestReport(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected report during ingestion to be rejected with ErrBusy, got: %v", err)
	}
	if state := coordinator.Status().State; state != StateRunning {
		t.Errorf("Expected state running, got %s", state)
	}

	close(source.release)

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected the first run to succeed, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for the first run to finish")
	}

	if state := coordinator.Status().State; state != StateIdle {
		t.Errorf("Expected state idle after the run, got %s", state)
	}
	if _, err := coordinator.RequestReport(context.Background()); err != nil {
		t.Errorf("Expected report after the run to succeed, got: %v", err)
	}
}

func TestCoordinator_ReleasesGateOnStoreFailure(t *testing.T) {
	source := &MockSource{records: []applicant.RawRecord{{EntryURL: "https://x/1"}}}
	store := &MockStore{insertErr: errors.New("disk full")}
	coordinator := NewCoordinator(source, store, report.DefaultSettings())

	_, err := coordinator.RequestIngestion(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Expected ErrStoreUnavailable, got: %v", err)
	}
	if errors.Is(err, ErrBusy) {
		t.Error("Expected a run failure to be distinct from busy")
	}

	status := coordinator.Status()
	if status.State != StateIdle {
		t.Errorf("Expected state idle after a failed run, got %s", status.State)
	}
	if status.LastRun == nil || status.LastRun.Err == nil {
		t.Errorf("Expected the failed run to be recorded, got %+v", status.LastRun)
	}

	store.insertErr = nil
	if _, err := coordinator.RequestIngestion(context.Background()); err != nil {
		t.Errorf("Expected the next run to proceed, got: %v", err)
	}
}

func TestCoordinator_FetchFailure(t *testing.T) {
	source := &MockSource{err: errors.New("listing unreachable")}
	coordinator := NewCoordinator(source, &MockStore{}, report.DefaultSettings())

	if _, err := coordinator.RequestIngestion(context.Background()); err == nil {
		t.Error("Expected fetch failure to surface as a run failure")
	}
	if coordinator.Status().State != StateIdle {
		t.Error("Expected gate to be idle after a fetch failure")
	}
}

func TestCoordinator_RunIgnoresCallerCancellation(t *testing.T) {
	source := &MockSource{records: []applicant.RawRecord{{EntryURL: "https://x/1"}}}
	store := &MockStore{}
	coordinator := NewCoordinator(source, store, report.DefaultSettings())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := coordinator.RequestIngestion(ctx)
	if err != nil {
		t.Fatalf("Expected the run to complete despite a cancelled caller, got: %v", err)
	}
	if result.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", result.Inserted)
	}
}

func TestCoordinator_CountsSkippedEntries(t *testing.T) {
	source := &MockSource{records: []applicant.RawRecord{
		{EntryURL: "https://x/1"},
		{ProgramText: "no identity"},
		{EntryURL: "https://x/1"},
	}}
	coordinator := NewCoordinator(source, &MockStore{}, report.DefaultSettings())

	result, err := coordinator.RequestIngestion(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Fetched != 3 || result.Inserted != 1 || result.Duplicates != 1 || result.Skipped != 1 {
		t.Errorf("Expected fetched=3 inserted=1 duplicates=1 skipped=1, got %+v", result)
	}
	if result.RunID == "" {
		t.Error("Expected the run to carry an id")
	}
}

func TestCoordinator_ReportStoreFailure(t *testing.T) {
	coordinator := NewCoordinator(&MockSource{}, &MockStore{listErr: errors.New("timeout")}, report.DefaultSettings())

	_, err := coordinator.RequestReport(context.Background())
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got: %v", err)
	}
}

func TestCoordinator_EndToEndFirstWriteWins(t *testing.T) {
	source := &MockSource{records: []applicant.RawRecord{
		{EntryURL: "https://x/1", ProgramText: "Physics at MIT", TermText: "Fall 2026"},
		{EntryURL: "https://x/1", ProgramText: "Chemistry at Stanford", TermText: "Fall 2026"},
	}}
	store := newSQLiteStore(t)
	coordinator := NewCoordinator(source, store, report.DefaultSettings())
	ctx := context.Background()

	first, err := coordinator.RequestIngestion(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if first.Inserted != 1 {
		t.Errorf("Expected 1 inserted on first run, got %d", first.Inserted)
	}

	second, err := coordinator.RequestIngestion(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if second.Inserted != 0 {
		t.Errorf("Expected 0 inserted on second run, got %d", second.Inserted)
	}

	stored, err := store.ListApplicants(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("Expected 1 stored entry, got %d", len(stored))
	}
	if got := stored[0].Program.OrElse(""); got != "Physics" {
		t.Errorf("Expected the first delivered entry to win, got program %q", got)
	}

	rep, err := coordinator.RequestReport(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if rep.Total != 1 {
		t.Errorf("Expected report over 1 entry, got %d", rep.Total)
	}
	stat, _ := rep.Statistic("term_applicants")
	if got := stat.Metrics[0].Text(); got != "1" {
		t.Errorf("Expected 1 applicant for the target term, got %s", got)
	}
}
