package evaluation

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/evaluation"
	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/shared"
)

// EvaluationService handles impact-evaluation (EIPD) operations
type EvaluationService struct {
	evaluationRepo evaluation.EvaluationRepository
	activityRepo   registry.ActivityRepository
	publisher      shared.EventPublisher
	logger         *zap.Logger
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(
	evaluationRepo evaluation.EvaluationRepository,
	activityRepo registry.ActivityRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		evaluationRepo: evaluationRepo,
		activityRepo:   activityRepo,
		publisher:      publisher,
		logger:         logger,
	}
}

// Create generates a pending evaluation for a processing activity.
// The activity must exist within the tenant.
func (s *EvaluationService) Create(ctx context.Context, tenantID uuid.UUID, req CreateEvaluationRequest) (*EvaluationResponse, error) {
	if _, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, req.ActivityID); err != nil {
		return nil, err
	}

	ev, err := evaluation.NewEvaluation(tenantID, req.ActivityID, req.Title)
	if err != nil {
		return nil, err
	}
	ev.RiskSummary = req.RiskSummary

	if err := s.evaluationRepo.Save(ctx, ev); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &ev.TenantAggregateRoot)

	s.logger.Info("impact evaluation generated",
		zap.String("tenant_id", tenantID.String()),
		zap.String("activity_id", req.ActivityID.String()))

	return toEvaluationResponse(ev), nil
}

// Get returns one evaluation
func (s *EvaluationService) Get(ctx context.Context, tenantID, id uuid.UUID) (*EvaluationResponse, error) {
	ev, err := s.evaluationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toEvaluationResponse(ev), nil
}

// List returns all evaluations for a tenant
func (s *EvaluationService) List(ctx context.Context, tenantID uuid.UUID) ([]EvaluationResponse, error) {
	items, err := s.evaluationRepo.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toEvaluationListResponse(items), nil
}

// ListByActivity returns the evaluations attached to one activity
func (s *EvaluationService) ListByActivity(ctx context.Context, tenantID, activityID uuid.UUID) ([]EvaluationResponse, error) {
	items, err := s.evaluationRepo.FindByActivity(ctx, tenantID, activityID)
	if err != nil {
		return nil, err
	}
	return toEvaluationListResponse(items), nil
}

// StartReview moves a pending evaluation into review
func (s *EvaluationService) StartReview(ctx context.Context, tenantID, id uuid.UUID) (*EvaluationResponse, error) {
	return s.transition(ctx, tenantID, id, func(ev *evaluation.Evaluation) error {
		return ev.StartReview()
	})
}

// Approve resolves an evaluation as approved
func (s *EvaluationService) Approve(ctx context.Context, tenantID, id uuid.UUID, req ReviewEvaluationRequest) (*EvaluationResponse, error) {
	return s.transition(ctx, tenantID, id, func(ev *evaluation.Evaluation) error {
		return ev.Approve(req.Notes)
	})
}

// Reject resolves an evaluation as rejected
func (s *EvaluationService) Reject(ctx context.Context, tenantID, id uuid.UUID, req ReviewEvaluationRequest) (*EvaluationResponse, error) {
	return s.transition(ctx, tenantID, id, func(ev *evaluation.Evaluation) error {
		return ev.Reject(req.Notes)
	})
}

func (s *EvaluationService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*evaluation.Evaluation) error) (*EvaluationResponse, error) {
	ev, err := s.evaluationRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := fn(ev); err != nil {
		return nil, err
	}

	if err := s.evaluationRepo.Update(ctx, ev); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &ev.TenantAggregateRoot)

	return toEvaluationResponse(ev), nil
}

func (s *EvaluationService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	root.ClearDomainEvents()
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
