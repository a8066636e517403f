package task

import (
	"github.com/lpdp/backend/internal/domain/shared"
)

// Event types for DPO tasks
const (
	EventTypeTaskCreated   = "task.created"
	EventTypeTaskCompleted = "task.completed"
)

const aggregateTypeTask = "DPOTask"

// TaskCreatedEvent is emitted when a new task is created
type TaskCreatedEvent struct {
	shared.BaseDomainEvent
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
}

// NewTaskCreatedEvent creates a new TaskCreatedEvent
func NewTaskCreatedEvent(t *Task) *TaskCreatedEvent {
	return &TaskCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCreated, aggregateTypeTask, t.ID, t.TenantID),
		Title:           t.Title,
		Priority:        t.Priority,
	}
}

// TaskCompletedEvent is emitted when a task is completed
type TaskCompletedEvent struct {
	shared.BaseDomainEvent
	Title string `json:"title"`
}

// NewTaskCompletedEvent creates a new TaskCompletedEvent
func NewTaskCompletedEvent(t *Task) *TaskCompletedEvent {
	return &TaskCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTaskCompleted, aggregateTypeTask, t.ID, t.TenantID),
		Title:           t.Title,
	}
}
