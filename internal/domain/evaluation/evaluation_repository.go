package evaluation

import (
	"context"

	"github.com/google/uuid"
)

// EvaluationRepository defines persistence operations for impact evaluations
type EvaluationRepository interface {
	Save(ctx context.Context, ev *Evaluation) error
	Update(ctx context.Context, ev *Evaluation) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Evaluation, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Evaluation, error)
	FindByActivity(ctx context.Context, tenantID, activityID uuid.UUID) ([]Evaluation, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, status Status) (int64, error)
}
