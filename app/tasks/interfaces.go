package tasks

import "context"

// TaskSchedulerInterface defines the background scheduling operations used
// by the main application.
// Example usage:
//
//	var scheduler TaskSchedulerInterface = NewScheduler(coordinator, time.Hour)
//	scheduler.Start()
//	defer scheduler.Stop()
type TaskSchedulerInterface interface {
	Start()
	Stop()
}

// Ingester is the part of Coordinator the scheduler drives.
type Ingester interface {
	RequestIngestion(ctx context.Context) (RunResult, error)
}
