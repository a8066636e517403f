package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskRepository defines persistence operations for DPO tasks
type TaskRepository interface {
	Save(ctx context.Context, t *Task) error
	Update(ctx context.Context, t *Task) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Task, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Task, error)
	FindPendingForTenant(ctx context.Context, tenantID uuid.UUID) ([]Task, error)
	CountPendingByPriority(ctx context.Context, tenantID uuid.UUID, priority Priority) (int64, error)
}
