package sync

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpdp/backend/internal/domain/evaluation"
	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/task"
)

type stubActivities struct {
	rows  []registry.Activity
	err   error
	calls atomic.Int32
}

func (s *stubActivities) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]registry.Activity, error) {
	s.calls.Add(1)
	return s.rows, s.err
}

type stubEvaluations struct {
	rows []evaluation.Evaluation
	err  error
}

func (s *stubEvaluations) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]evaluation.Evaluation, error) {
	return s.rows, s.err
}

type stubTasks struct {
	rows []task.Task
	err  error
}

func (s *stubTasks) FindPendingForTenant(ctx context.Context, tenantID uuid.UUID) ([]task.Task, error) {
	return s.rows, s.err
}

type stubNotifications struct {
	unread int64
	err    error
}

func (s *stubNotifications) CountUnread(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.unread, s.err
}

func makeActivity(t *testing.T, tenantID uuid.UUID, status registry.ActivityStatus, risk registry.RiskLevel) registry.Activity {
	t.Helper()
	a, err := registry.NewActivity(tenantID, "Test activity", "DPO", "consent")
	require.NoError(t, err)
	require.NoError(t, a.SetRiskLevel(risk))
	switch status {
	case registry.ActivityStatusActive:
		require.NoError(t, a.Activate())
	case registry.ActivityStatusCertified:
		require.NoError(t, a.Activate())
		require.NoError(t, a.Certify())
	case registry.ActivityStatusArchived:
		require.NoError(t, a.Archive())
	}
	return *a
}

func makeEvaluation(t *testing.T, tenantID uuid.UUID, approved bool) evaluation.Evaluation {
	t.Helper()
	ev, err := evaluation.NewEvaluation(tenantID, uuid.New(), "Test evaluation")
	require.NoError(t, err)
	if approved {
		require.NoError(t, ev.Approve("ok"))
	}
	return *ev
}

func makeTask(t *testing.T, tenantID uuid.UUID, priority task.Priority, due *time.Time) task.Task {
	t.Helper()
	tk, err := task.NewTask(tenantID, "Test task", priority, due)
	require.NoError(t, err)
	return *tk
}

func TestAggregator_ComputeAggregate(t *testing.T) {
	t.Run("five activities with three certified yield 60 percent compliance", func(t *testing.T) {
		tenantID := uuid.New()
		activities := []registry.Activity{
			makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelHigh),
			makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
			makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
			makeActivity(t, tenantID, registry.ActivityStatusDraft, registry.RiskLevelLow),
			makeActivity(t, tenantID, registry.ActivityStatusDraft, registry.RiskLevelLow),
		}
		evaluations := []evaluation.Evaluation{
			makeEvaluation(t, tenantID, true),
		}

		agg := NewAggregator(
			&stubActivities{rows: activities},
			&stubEvaluations{rows: evaluations},
			&stubTasks{},
			&stubNotifications{},
		)

		result, err := agg.ComputeAggregate(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, 5, result.TotalActivities)
		assert.Equal(t, 3, result.CertifiedActivities)
		assert.Equal(t, 2, result.DraftActivities)
		assert.Equal(t, 1, result.HighRiskActivities)
		assert.Equal(t, 60, result.CompliancePercentage)
		assert.Equal(t, 100, result.CoverageRatio)
	})

	t.Run("coverage defaults to 100 with zero high-risk activities", func(t *testing.T) {
		tenantID := uuid.New()
		agg := NewAggregator(
			&stubActivities{rows: []registry.Activity{
				makeActivity(t, tenantID, registry.ActivityStatusActive, registry.RiskLevelLow),
			}},
			&stubEvaluations{},
			&stubTasks{},
			&stubNotifications{},
		)

		result, err := agg.ComputeAggregate(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, 100, result.CoverageRatio)
	})

	t.Run("compliance is 0 for a tenant with no activities", func(t *testing.T) {
		agg := NewAggregator(&stubActivities{}, &stubEvaluations{}, &stubTasks{}, &stubNotifications{})

		result, err := agg.ComputeAggregate(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Equal(t, 0, result.CompliancePercentage)
	})

	t.Run("compliance stays within bounds", func(t *testing.T) {
		tenantID := uuid.New()
		agg := NewAggregator(
			&stubActivities{rows: []registry.Activity{
				makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
				makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
				makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
			}},
			&stubEvaluations{},
			&stubTasks{},
			&stubNotifications{},
		)

		result, err := agg.ComputeAggregate(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, 100, result.CompliancePercentage)
	})

	t.Run("archived activities are excluded from compliance", func(t *testing.T) {
		tenantID := uuid.New()
		agg := NewAggregator(
			&stubActivities{rows: []registry.Activity{
				makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
				makeActivity(t, tenantID, registry.ActivityStatusArchived, registry.RiskLevelHigh),
			}},
			&stubEvaluations{},
			&stubTasks{},
			&stubNotifications{},
		)

		result, err := agg.ComputeAggregate(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalActivities)
		assert.Equal(t, 0, result.HighRiskActivities)
		assert.Equal(t, 100, result.CompliancePercentage)
	})

	t.Run("task counts include overdue and urgent breakdowns", func(t *testing.T) {
		tenantID := uuid.New()
		past := time.Now().Add(-24 * time.Hour)
		future := time.Now().Add(24 * time.Hour)

		agg := NewAggregator(
			&stubActivities{},
			&stubEvaluations{},
			&stubTasks{rows: []task.Task{
				makeTask(t, tenantID, task.PriorityUrgent, &past),
				makeTask(t, tenantID, task.PriorityMedium, &future),
				makeTask(t, tenantID, task.PriorityLow, nil),
			}},
			&stubNotifications{unread: 2},
		)

		result, err := agg.ComputeAggregate(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, 3, result.PendingTasks)
		assert.Equal(t, 1, result.OverdueTasks)
		assert.Equal(t, 1, result.UrgentTasks)
		assert.Equal(t, 2, result.UnreadNotifications)
	})

	t.Run("a single failed fetch fails the whole aggregate", func(t *testing.T) {
		tenantID := uuid.New()
		storeErr := errors.New("connection refused")

		agg := NewAggregator(
			&stubActivities{},
			&stubEvaluations{err: storeErr},
			&stubTasks{},
			&stubNotifications{},
		)

		result, err := agg.ComputeAggregate(context.Background(), tenantID)

		assert.Nil(t, result)
		var aggErr *AggregationError
		require.ErrorAs(t, err, &aggErr)
		assert.Equal(t, ErrorKindStoreFailure, aggErr.Kind)
		assert.Equal(t, tenantID, aggErr.TenantID)
		assert.True(t, aggErr.Retryable())
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("missing tenant is rejected with a typed error", func(t *testing.T) {
		agg := NewAggregator(&stubActivities{}, &stubEvaluations{}, &stubTasks{}, &stubNotifications{})

		result, err := agg.ComputeAggregate(context.Background(), uuid.Nil)

		assert.Nil(t, result)
		var aggErr *AggregationError
		require.ErrorAs(t, err, &aggErr)
		assert.Equal(t, ErrorKindMissingTenant, aggErr.Kind)
		assert.False(t, aggErr.Retryable())
	})
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 60, ratio(3, 5, 0))
	assert.Equal(t, 67, ratio(2, 3, 0))
	assert.Equal(t, 0, ratio(0, 5, 0))
	assert.Equal(t, 100, ratio(0, 0, 100))
	assert.Equal(t, 0, ratio(0, 0, 0))
	assert.Equal(t, 100, ratio(7, 5, 0)) // clamped
}
