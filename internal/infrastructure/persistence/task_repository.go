package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lpdp/backend/internal/domain/shared"
	"github.com/lpdp/backend/internal/domain/task"
)

// GormTaskRepository implements task.TaskRepository using GORM
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a new GormTaskRepository
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// Save creates or updates a DPO task
func (r *GormTaskRepository) Save(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// Update updates a DPO task
func (r *GormTaskRepository) Update(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Save(t).Error
}

// FindByIDForTenant finds a task by ID within a tenant
func (r *GormTaskRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*task.Task, error) {
	var t task.Task
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAllForTenant finds all tasks for a tenant
func (r *GormTaskRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]task.Task, error) {
	var tasks []task.Task
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("due_date ASC NULLS LAST, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindPendingForTenant finds tasks that are not yet done, ordered by due date
func (r *GormTaskRepository) FindPendingForTenant(ctx context.Context, tenantID uuid.UUID) ([]task.Task, error) {
	var tasks []task.Task
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status <> ?", tenantID, task.StatusDone).
		Order("due_date ASC NULLS LAST, created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// CountPendingByPriority counts unfinished tasks with a given priority
func (r *GormTaskRepository) CountPendingByPriority(ctx context.Context, tenantID uuid.UUID, priority task.Priority) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&task.Task{}).
		Where("tenant_id = ? AND status <> ? AND priority = ?", tenantID, task.StatusDone, priority).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormTaskRepository implements TaskRepository
var _ task.TaskRepository = (*GormTaskRepository)(nil)
