package api

import (
	"context"

	"github.com/lysyi3m/gradcafe-comb/app/report"
	"github.com/lysyi3m/gradcafe-comb/app/tasks"
)

type CoordinatorInterface interface {
	RequestIngestion(ctx context.Context) (tasks.RunResult, error)
	RequestReport(ctx context.Context) (report.Report, error)
	Status() tasks.Snapshot
}

var _ CoordinatorInterface = (*tasks.Coordinator)(nil)

type CounterInterface interface {
	GetApplicantCount(ctx context.Context) (int, error)
}

type Handler struct {
	coordinator CoordinatorInterface
	counter     CounterInterface
	version     string
}
