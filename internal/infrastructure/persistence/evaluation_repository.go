package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lpdp/backend/internal/domain/evaluation"
	"github.com/lpdp/backend/internal/domain/shared"
)

// GormEvaluationRepository implements evaluation.EvaluationRepository using GORM
type GormEvaluationRepository struct {
	db *gorm.DB
}

// NewGormEvaluationRepository creates a new GormEvaluationRepository
func NewGormEvaluationRepository(db *gorm.DB) *GormEvaluationRepository {
	return &GormEvaluationRepository{db: db}
}

// Save creates or updates an impact evaluation
func (r *GormEvaluationRepository) Save(ctx context.Context, ev *evaluation.Evaluation) error {
	return r.db.WithContext(ctx).Save(ev).Error
}

// Update updates an impact evaluation
func (r *GormEvaluationRepository) Update(ctx context.Context, ev *evaluation.Evaluation) error {
	return r.db.WithContext(ctx).Save(ev).Error
}

// FindByIDForTenant finds an evaluation by ID within a tenant
func (r *GormEvaluationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*evaluation.Evaluation, error) {
	var ev evaluation.Evaluation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&ev).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// FindAllForTenant finds all evaluations for a tenant
func (r *GormEvaluationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]evaluation.Evaluation, error) {
	var evs []evaluation.Evaluation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}

// FindByActivity finds all evaluations attached to a processing activity
func (r *GormEvaluationRepository) FindByActivity(ctx context.Context, tenantID, activityID uuid.UUID) ([]evaluation.Evaluation, error) {
	var evs []evaluation.Evaluation
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND activity_id = ?", tenantID, activityID).
		Order("created_at DESC").
		Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}

// CountByStatus counts evaluations by status for a tenant
func (r *GormEvaluationRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status evaluation.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&evaluation.Evaluation{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormEvaluationRepository implements EvaluationRepository
var _ evaluation.EvaluationRepository = (*GormEvaluationRepository)(nil)
