package tasks

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler requests an ingestion run on a fixed interval. A tick that
// finds a run already in flight is dropped, not queued.
type Scheduler struct {
	ingester Ingester
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewScheduler(ingester Ingester, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		ingester: ingester,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	if s.interval <= 0 {
		slog.Info("Scheduled ingestion disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.trigger()
			}
		}
	}()

	slog.Info("Scheduled ingestion enabled", "interval", s.interval.String())
}

// Stop waits for an in-flight scheduled run to finish.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) trigger() {
	result, err := s.ingester.RequestIngestion(s.ctx)
	switch {
	case errors.Is(err, ErrBusy):
		slog.Debug("Scheduled ingestion skipped, run already in progress")
	case err != nil:
		slog.Warn("Scheduled ingestion failed", "id", result.RunID, "error", err)
	default:
		slog.Debug("Scheduled ingestion finished", "id", result.RunID, "inserted", result.Inserted)
	}
}
