package agreement

import (
	"context"

	"github.com/google/uuid"
)

// AgreementRepository defines persistence operations for processing agreements
type AgreementRepository interface {
	Save(ctx context.Context, a *Agreement) error
	Update(ctx context.Context, a *Agreement) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Agreement, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Agreement, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status Status) (int64, error)
}
