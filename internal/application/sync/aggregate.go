// Package sync implements the per-tenant compliance data synchronization
// layer: a short-TTL aggregate cache, a subscriber registry with broadcast,
// invalidation hooks driven by domain events, and per-consumer projections.
package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/lpdp/backend/internal/domain/evaluation"
	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/task"
)

// TenantAggregate is the derived, immutable snapshot of a tenant's
// compliance state. It is replaced wholesale on every recomputation,
// never mutated in place.
type TenantAggregate struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	CapturedAt time.Time `json:"captured_at"`
	// Sequence orders computations for one service instance. A completed
	// computation is applied to the cache only if its sequence is greater
	// than the cached one, so a slow stale computation can never overwrite
	// a newer result.
	Sequence uint64 `json:"sequence"`

	TotalActivities     int `json:"total_activities"` // excludes archived
	ActiveActivities    int `json:"active_activities"`
	CertifiedActivities int `json:"certified_activities"`
	DraftActivities     int `json:"draft_activities"`
	HighRiskActivities  int `json:"high_risk_activities"`

	TotalEvaluations    int `json:"total_evaluations"`
	PendingEvaluations  int `json:"pending_evaluations"`
	ApprovedEvaluations int `json:"approved_evaluations"`

	PendingTasks int `json:"pending_tasks"`
	OverdueTasks int `json:"overdue_tasks"`
	UrgentTasks  int `json:"urgent_tasks"`

	UnreadNotifications int `json:"unread_notifications"`

	// CompliancePercentage is round(100 * certified / total), 0 when the
	// tenant has no activities. Always within [0, 100].
	CompliancePercentage int `json:"compliance_percentage"`
	// CoverageRatio is round(100 * approved evaluations / high-risk
	// activities). With zero high-risk activities nothing requires an
	// evaluation, so coverage reads as 100. Always within [0, 100].
	CoverageRatio int `json:"coverage_ratio"`

	// Raw row sets behind the counts, kept so projections can re-slice
	// without another round of queries.
	Activities  []registry.Activity     `json:"activities"`
	Evaluations []evaluation.Evaluation `json:"evaluations"`
	Tasks       []task.Task             `json:"tasks"`
}
