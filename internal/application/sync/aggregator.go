package sync

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lpdp/backend/internal/domain/evaluation"
	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/task"
)

// ActivitySource fetches a tenant's processing activities
type ActivitySource interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]registry.Activity, error)
}

// EvaluationSource fetches a tenant's impact evaluations
type EvaluationSource interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]evaluation.Evaluation, error)
}

// TaskSource fetches a tenant's unfinished DPO tasks
type TaskSource interface {
	FindPendingForTenant(ctx context.Context, tenantID uuid.UUID) ([]task.Task, error)
}

// NotificationSource counts a tenant's unread notifications
type NotificationSource interface {
	CountUnread(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// Aggregator computes TenantAggregate snapshots by fanning out the
// per-tenant queries concurrently and reducing the rows into counts.
type Aggregator struct {
	activities    ActivitySource
	evaluations   EvaluationSource
	tasks         TaskSource
	notifications NotificationSource
	fetchTimeout  time.Duration
	logger        *zap.Logger
}

// AggregatorOption is a functional option for configuring the aggregator
type AggregatorOption func(*Aggregator)

// WithFetchTimeout bounds one full aggregate computation
func WithFetchTimeout(d time.Duration) AggregatorOption {
	return func(a *Aggregator) {
		a.fetchTimeout = d
	}
}

// WithAggregatorLogger sets the logger for the aggregator
func WithAggregatorLogger(logger *zap.Logger) AggregatorOption {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an aggregator over the given row sources
func NewAggregator(
	activities ActivitySource,
	evaluations EvaluationSource,
	tasks TaskSource,
	notifications NotificationSource,
	opts ...AggregatorOption,
) *Aggregator {
	a := &Aggregator{
		activities:    activities,
		evaluations:   evaluations,
		tasks:         tasks,
		notifications: notifications,
		fetchTimeout:  10 * time.Second,
		logger:        zap.NewNop(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// ComputeAggregate produces a fresh TenantAggregate. All fan-out queries
// run concurrently; any single failure fails the whole computation with
// a typed AggregationError rather than silently zeroing a count.
func (a *Aggregator) ComputeAggregate(ctx context.Context, tenantID uuid.UUID) (*TenantAggregate, error) {
	if tenantID == uuid.Nil {
		return nil, newAggregationError(ErrorKindMissingTenant, tenantID, nil)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	var (
		activities  []registry.Activity
		evaluations []evaluation.Evaluation
		tasks       []task.Task
		unread      int64
	)

	g, gctx := errgroup.WithContext(fetchCtx)

	g.Go(func() error {
		var err error
		activities, err = a.activities.FindAllForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		evaluations, err = a.evaluations.FindAllForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		tasks, err = a.tasks.FindPendingForTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = a.notifications.CountUnread(gctx, tenantID)
		return err
	})

	if err := g.Wait(); err != nil {
		kind := ErrorKindStoreFailure
		if errors.Is(err, context.DeadlineExceeded) {
			kind = ErrorKindTimeout
		}
		a.logger.Warn("aggregate computation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return nil, newAggregationError(kind, tenantID, err)
	}

	agg := reduce(tenantID, activities, evaluations, tasks, int(unread))

	a.logger.Debug("aggregate computed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("total_activities", agg.TotalActivities),
		zap.Int("compliance", agg.CompliancePercentage),
		zap.Int("coverage", agg.CoverageRatio))

	return agg, nil
}

// reduce turns raw row sets into the derived aggregate
func reduce(
	tenantID uuid.UUID,
	activities []registry.Activity,
	evaluations []evaluation.Evaluation,
	tasks []task.Task,
	unread int,
) *TenantAggregate {
	now := time.Now()

	agg := &TenantAggregate{
		TenantID:            tenantID,
		CapturedAt:          now,
		Activities:          activities,
		Evaluations:         evaluations,
		Tasks:               tasks,
		UnreadNotifications: unread,
	}

	for i := range activities {
		act := &activities[i]
		if !act.CountsTowardCompliance() {
			continue
		}
		agg.TotalActivities++
		switch act.Status {
		case registry.ActivityStatusActive:
			agg.ActiveActivities++
		case registry.ActivityStatusCertified:
			agg.CertifiedActivities++
		case registry.ActivityStatusDraft:
			agg.DraftActivities++
		}
		if act.IsHighRisk() {
			agg.HighRiskActivities++
		}
	}

	for i := range evaluations {
		ev := &evaluations[i]
		agg.TotalEvaluations++
		if ev.IsPending() {
			agg.PendingEvaluations++
		}
		if ev.IsApproved() {
			agg.ApprovedEvaluations++
		}
	}

	for i := range tasks {
		t := &tasks[i]
		if !t.IsPending() {
			continue
		}
		agg.PendingTasks++
		if t.IsOverdue(now) {
			agg.OverdueTasks++
		}
		if t.Priority == task.PriorityUrgent {
			agg.UrgentTasks++
		}
	}

	agg.CompliancePercentage = ratio(agg.CertifiedActivities, agg.TotalActivities, 0)
	agg.CoverageRatio = ratio(agg.ApprovedEvaluations, agg.HighRiskActivities, 100)

	return agg
}

// ratio computes round(100 * numerator / denominator) clamped to
// [0, 100], returning zeroDefault when the denominator is zero.
func ratio(numerator, denominator, zeroDefault int) int {
	if denominator <= 0 {
		return zeroDefault
	}
	r := int(math.Round(100 * float64(numerator) / float64(denominator)))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
