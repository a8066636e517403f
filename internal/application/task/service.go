package task

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/shared"
	"github.com/lpdp/backend/internal/domain/task"
)

// TaskService handles DPO task operations
type TaskService struct {
	taskRepo  task.TaskRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo task.TaskRepository, publisher shared.EventPublisher, logger *zap.Logger) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Create registers a new pending task
func (s *TaskService) Create(ctx context.Context, tenantID uuid.UUID, req CreateTaskRequest) (*TaskResponse, error) {
	t, err := task.NewTask(tenantID, req.Title, task.Priority(req.Priority), req.DueDate)
	if err != nil {
		return nil, err
	}
	t.Description = req.Description

	if err := s.taskRepo.Save(ctx, t); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &t.TenantAggregateRoot)

	s.logger.Info("dpo task created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("task_id", t.ID.String()))

	return toTaskResponse(t), nil
}

// Get returns one task
func (s *TaskService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(t), nil
}

// List returns all tasks for a tenant
func (s *TaskService) List(ctx context.Context, tenantID uuid.UUID) ([]TaskResponse, error) {
	items, err := s.taskRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toTaskListResponse(items), nil
}

// ListPending returns unfinished tasks ordered by due date
func (s *TaskService) ListPending(ctx context.Context, tenantID uuid.UUID) ([]TaskResponse, error) {
	items, err := s.taskRepo.FindPendingForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toTaskListResponse(items), nil
}

// Start moves a pending task into progress
func (s *TaskService) Start(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, id, (*task.Task).Start)
}

// Complete closes a task
func (s *TaskService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*TaskResponse, error) {
	return s.transition(ctx, tenantID, id, (*task.Task).Complete)
}

func (s *TaskService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*task.Task) error) (*TaskResponse, error) {
	t, err := s.taskRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := fn(t); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &t.TenantAggregateRoot)

	return toTaskResponse(t), nil
}

func (s *TaskService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	root.ClearDomainEvents()
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
