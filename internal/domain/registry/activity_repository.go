package registry

import (
	"context"

	"github.com/google/uuid"
)

// ActivityFilter narrows activity queries
type ActivityFilter struct {
	Status    ActivityStatus
	RiskLevel RiskLevel
	Search    string
	Page      int
	PageSize  int
}

// ActivityRepository defines persistence operations for processing activities
type ActivityRepository interface {
	Save(ctx context.Context, activity *Activity) error
	Update(ctx context.Context, activity *Activity) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Activity, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Activity, error)
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter ActivityFilter) ([]Activity, int64, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status ActivityStatus) (int64, error)
}
