package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lpdp/backend/internal/domain/shared"
)

// Priority orders DPO tasks in the pending queue
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Status represents the lifecycle state of a DPO task
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Task is a compliance work item assigned to the tenant's DPO
type Task struct {
	shared.TenantAggregateRoot
	Title       string   `gorm:"type:varchar(255);not null"`
	Description string   `gorm:"type:text"`
	Priority    Priority `gorm:"type:varchar(20);not null;default:'medium';index"`
	Status      Status   `gorm:"type:varchar(20);not null;default:'pending';index"`
	DueDate     *time.Time
	CompletedAt *time.Time
}

// TableName returns the table name for GORM
func (Task) TableName() string {
	return "dpo_tasks"
}

// NewTask creates a pending DPO task
func NewTask(tenantID uuid.UUID, title string, priority Priority, due *time.Time) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Task title cannot be empty")
	}
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	case "":
		priority = PriorityMedium
	default:
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown task priority")
	}

	task := &Task{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Priority:            priority,
		Status:              StatusPending,
		DueDate:             due,
	}

	task.AddDomainEvent(NewTaskCreatedEvent(task))

	return task, nil
}

// Start moves a pending task into progress
func (t *Task) Start() error {
	if t.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending tasks can be started")
	}

	t.Status = StatusInProgress
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Complete closes the task
func (t *Task) Complete() error {
	if t.Status == StatusDone {
		return shared.NewDomainError("ALREADY_DONE", "Task is already completed")
	}

	now := time.Now()
	t.Status = StatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.IncrementVersion()

	t.AddDomainEvent(NewTaskCompletedEvent(t))

	return nil
}

// IsPending returns true while the task still needs DPO attention
func (t *Task) IsPending() bool {
	return t.Status != StatusDone
}

// IsOverdue reports whether the task passed its due date without completion
func (t *Task) IsOverdue(now time.Time) bool {
	return t.IsPending() && t.DueDate != nil && now.After(*t.DueDate)
}
