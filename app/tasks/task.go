package tasks

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type TaskType string

const (
	TaskTypeIngest TaskType = "ingest"
	TaskTypeImport TaskType = "import"
)

type Task struct {
	ID        string
	Type      TaskType
	StartedAt *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType) Task {
	return Task{
		ID:   uuid.NewString(),
		Type: taskType,
	}
}

func (t *Task) result() RunResult {
	result := RunResult{RunID: t.GetID()}
	if t.StartedAt != nil {
		result.StartedAt = *t.StartedAt
	}
	return result
}

func (t *Task) complete(result RunResult) RunResult {
	result.Duration = t.GetDuration()

	slog.Info("Task completed",
		"type", string(t.GetType()),
		"id", t.GetID(),
		"duration", result.Duration,
		"fetched", result.Fetched,
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
		"skipped", result.Skipped,
		"standardized", result.Standardized)

	return result
}

func (t *Task) fail(result RunResult, err error) (RunResult, error) {
	result.Duration = t.GetDuration()
	result.Err = err
	slog.Error("Task failed", "type", string(t.GetType()), "id", t.GetID(), "duration", result.Duration, "error", err)
	return result, err
}
