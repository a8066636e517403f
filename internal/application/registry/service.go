package registry

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/shared"
)

// ActivityService handles processing-activity (RAT) operations
type ActivityService struct {
	activityRepo registry.ActivityRepository
	publisher    shared.EventPublisher
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo registry.ActivityRepository, publisher shared.EventPublisher, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create registers a new draft processing activity
func (s *ActivityService) Create(ctx context.Context, tenantID uuid.UUID, req CreateActivityRequest) (*ActivityResponse, error) {
	activity, err := registry.NewActivity(tenantID, req.Name, req.ResponsibleParty, req.LegalBasis)
	if err != nil {
		return nil, err
	}

	activity.Purpose = req.Purpose
	activity.DataCategories = req.DataCategories
	if req.RiskLevel != "" {
		if err := activity.SetRiskLevel(registry.RiskLevel(req.RiskLevel)); err != nil {
			return nil, err
		}
	}

	if err := s.activityRepo.Save(ctx, activity); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &activity.TenantAggregateRoot)

	s.logger.Info("processing activity created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("activity_id", activity.ID.String()))

	return toActivityResponse(activity), nil
}

// Get returns one processing activity
func (s *ActivityService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ActivityResponse, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toActivityResponse(activity), nil
}

// List returns activities matching the filter
func (s *ActivityService) List(ctx context.Context, tenantID uuid.UUID, req ListActivitiesRequest) (*ActivityListResponse, error) {
	filter := registry.ActivityFilter{
		Status:    registry.ActivityStatus(req.Status),
		RiskLevel: registry.RiskLevel(req.RiskLevel),
		Search:    req.Search,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	items, total, err := s.activityRepo.FindForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return toActivityListResponse(items, total), nil
}

// Update modifies an activity's descriptive fields
func (s *ActivityService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateActivityRequest) (*ActivityResponse, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := activity.Update(req.Name, req.Purpose, req.DataCategories); err != nil {
		return nil, err
	}
	if req.RiskLevel != "" && registry.RiskLevel(req.RiskLevel) != activity.RiskLevel {
		if err := activity.SetRiskLevel(registry.RiskLevel(req.RiskLevel)); err != nil {
			return nil, err
		}
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &activity.TenantAggregateRoot)

	return toActivityResponse(activity), nil
}

// Activate moves a draft activity into the active registry
func (s *ActivityService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*ActivityResponse, error) {
	return s.transition(ctx, tenantID, id, (*registry.Activity).Activate)
}

// Certify marks an active activity as compliance-certified
func (s *ActivityService) Certify(ctx context.Context, tenantID, id uuid.UUID) (*ActivityResponse, error) {
	return s.transition(ctx, tenantID, id, (*registry.Activity).Certify)
}

// Archive retires an activity from the registry
func (s *ActivityService) Archive(ctx context.Context, tenantID, id uuid.UUID) (*ActivityResponse, error) {
	return s.transition(ctx, tenantID, id, (*registry.Activity).Archive)
}

// Delete removes an activity permanently
func (s *ActivityService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.activityRepo.Delete(ctx, tenantID, id)
}

func (s *ActivityService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*registry.Activity) error) (*ActivityResponse, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := fn(activity); err != nil {
		return nil, err
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, &activity.TenantAggregateRoot)

	return toActivityResponse(activity), nil
}

// publishEvents drains and publishes the aggregate's pending events
func (s *ActivityService) publishEvents(ctx context.Context, root *shared.TenantAggregateRoot) {
	events := root.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	root.ClearDomainEvents()
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events", zap.Error(err))
	}
}
