package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/shared"
)

// GormActivityRepository implements registry.ActivityRepository using GORM
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// Save creates or updates a processing activity
func (r *GormActivityRepository) Save(ctx context.Context, activity *registry.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// Update updates a processing activity
func (r *GormActivityRepository) Update(ctx context.Context, activity *registry.Activity) error {
	return r.db.WithContext(ctx).Save(activity).Error
}

// Delete deletes a processing activity within a tenant
func (r *GormActivityRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&registry.Activity{}, "tenant_id = ? AND id = ?", tenantID, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByIDForTenant finds an activity by ID within a tenant
func (r *GormActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*registry.Activity, error) {
	var activity registry.Activity
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// FindAllForTenant finds all activities for a tenant
func (r *GormActivityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]registry.Activity, error) {
	var activities []registry.Activity
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindForTenant finds activities matching the filter and returns the unpaginated total
func (r *GormActivityRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter registry.ActivityFilter) ([]registry.Activity, int64, error) {
	base := r.db.WithContext(ctx).Model(&registry.Activity{}).Where("tenant_id = ?", tenantID)

	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}
	if filter.RiskLevel != "" {
		base = base.Where("risk_level = ?", filter.RiskLevel)
	}
	if filter.Search != "" {
		pattern := "%" + strings.TrimSpace(filter.Search) + "%"
		base = base.Where("name ILIKE ? OR responsible_party ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base.Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var activities []registry.Activity
	if err := query.Find(&activities).Error; err != nil {
		return nil, 0, err
	}
	return activities, total, nil
}

// CountByStatus counts activities by status for a tenant
func (r *GormActivityRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status registry.ActivityStatus) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&registry.Activity{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormActivityRepository implements ActivityRepository
var _ registry.ActivityRepository = (*GormActivityRepository)(nil)
