package tasks

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type MockIngester struct {
	calls atomic.Int32
	err   error
}

func (m *MockIngester) RequestIngestion(ctx context.Context) (RunResult, error) {
	m.calls.Add(1)
	return RunResult{RunID: "test"}, m.err
}

func TestScheduler_TriggersOnInterval(t *testing.T) {
	ingester := &MockIngester{}
	scheduler := NewScheduler(ingester, 10*time.Millisecond)

	scheduler.Start()
	deadline := time.Now().Add(5 * time.Second)
	for ingester.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	scheduler.Stop()

	if got := ingester.calls.Load(); got < 2 {
		t.Errorf("Expected at least 2 scheduled runs, got %d", got)
	}
}

func TestScheduler_BusyTickIsDropped(t *testing.T) {
	ingester := &MockIngester{err: ErrBusy}
	scheduler := NewScheduler(ingester, 10*time.Millisecond)

	scheduler.Start()
	deadline := time.Now().Add(5 * time.Second)
	for ingester.calls.Load() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	scheduler.Stop()

	if ingester.calls.Load() < 1 {
		t.Error("Expected the scheduler to keep ticking through busy results")
	}
}

func TestScheduler_DisabledInterval(t *testing.T) {
	ingester := &MockIngester{}
	scheduler := NewScheduler(ingester, 0)

	scheduler.Start()
	time.Sleep(20 * time.Millisecond)
	scheduler.Stop()

	if got := ingester.calls.Load(); got != 0 {
		t.Errorf("Expected no runs with a disabled interval, got %d", got)
	}
}
