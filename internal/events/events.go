package events

import (
	"context"
	"time"

	"task_manager/internal/models"

	"github.com/google/uuid"
)

// Task event types.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent describes a completed write to the task store.
type TaskEvent struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	TaskID     string       `json:"taskId"`
	OccurredAt time.Time    `json:"occurredAt"`
	Task       *models.Task `json:"task,omitempty"`
}

// NewTaskEvent builds an event with a fresh id. task may be nil for deletes.
func NewTaskEvent(typ, taskID string, task *models.Task, at time.Time) TaskEvent {
	return TaskEvent{
		ID:         uuid.NewString(),
		Type:       typ,
		TaskID:     taskID,
		OccurredAt: at.UTC(),
		Task:       task,
	}
}

// Publisher delivers task events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, e TaskEvent) error
	Close() error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, TaskEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
