package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lpdp/backend/internal/domain/agreement"
	"github.com/lpdp/backend/internal/domain/shared"
)

// GormAgreementRepository implements agreement.AgreementRepository using GORM
type GormAgreementRepository struct {
	db *gorm.DB
}

// NewGormAgreementRepository creates a new GormAgreementRepository
func NewGormAgreementRepository(db *gorm.DB) *GormAgreementRepository {
	return &GormAgreementRepository{db: db}
}

// Save creates or updates a processing agreement
func (r *GormAgreementRepository) Save(ctx context.Context, a *agreement.Agreement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Update updates a processing agreement
func (r *GormAgreementRepository) Update(ctx context.Context, a *agreement.Agreement) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// FindByIDForTenant finds an agreement by ID within a tenant
func (r *GormAgreementRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*agreement.Agreement, error) {
	var a agreement.Agreement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAllForTenant finds all agreements for a tenant
func (r *GormAgreementRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]agreement.Agreement, error) {
	var agreements []agreement.Agreement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&agreements).Error; err != nil {
		return nil, err
	}
	return agreements, nil
}

// CountByStatus counts agreements by status for a tenant
func (r *GormAgreementRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, status agreement.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&agreement.Agreement{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormAgreementRepository implements AgreementRepository
var _ agreement.AgreementRepository = (*GormAgreementRepository)(nil)
