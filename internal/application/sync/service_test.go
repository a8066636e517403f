package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpdp/backend/internal/domain/registry"
)

func newTestService(t *testing.T, activities *stubActivities, opts ...ServiceOption) *Service {
	t.Helper()
	aggregator := NewAggregator(activities, &stubEvaluations{}, &stubTasks{}, &stubNotifications{})
	svc := NewService(aggregator, opts...)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestService_Snapshot(t *testing.T) {
	t.Run("serves from cache within the freshness window", func(t *testing.T) {
		tenantID := uuid.New()
		activities := &stubActivities{rows: []registry.Activity{
			makeActivity(t, tenantID, registry.ActivityStatusActive, registry.RiskLevelLow),
		}}
		svc := newTestService(t, activities)

		first, err := svc.Snapshot(context.Background(), tenantID)
		require.NoError(t, err)

		second, err := svc.Snapshot(context.Background(), tenantID)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), activities.calls.Load())
	})

	t.Run("rejects a missing tenant", func(t *testing.T) {
		svc := newTestService(t, &stubActivities{})

		_, err := svc.Snapshot(context.Background(), uuid.Nil)

		var aggErr *AggregationError
		require.ErrorAs(t, err, &aggErr)
		assert.Equal(t, ErrorKindMissingTenant, aggErr.Kind)
	})
}

func TestService_InvalidateAndRefresh(t *testing.T) {
	t.Run("recomputes and broadcasts a newer aggregate to all subscribers", func(t *testing.T) {
		tenantID := uuid.New()
		activities := &stubActivities{}
		svc := newTestService(t, activities)

		initial, err := svc.Snapshot(context.Background(), tenantID)
		require.NoError(t, err)

		var aGot, bGot *TenantAggregate
		svc.Subscribe("DashboardDPO", tenantID, func(a *TenantAggregate) { aGot = a })
		svc.Subscribe("Calendario", tenantID, func(a *TenantAggregate) { bGot = a })

		time.Sleep(time.Millisecond)
		refreshed, err := svc.InvalidateAndRefresh(context.Background(), tenantID, ReasonRATCreated)
		require.NoError(t, err)

		assert.Same(t, refreshed, aGot)
		assert.Same(t, refreshed, bGot)
		assert.True(t, refreshed.CapturedAt.After(initial.CapturedAt))
		assert.Greater(t, refreshed.Sequence, initial.Sequence)
	})

	t.Run("is a no-op without a tenant", func(t *testing.T) {
		activities := &stubActivities{}
		svc := newTestService(t, activities)

		result, err := svc.InvalidateAndRefresh(context.Background(), uuid.Nil, ReasonForceRefresh)

		assert.NoError(t, err)
		assert.Nil(t, result)
		assert.Equal(t, int32(0), activities.calls.Load())
	})

	t.Run("replaces the cached aggregate rather than merging", func(t *testing.T) {
		tenantID := uuid.New()
		activities := &stubActivities{}
		svc := newTestService(t, activities)

		first, err := svc.Snapshot(context.Background(), tenantID)
		require.NoError(t, err)

		activities.rows = []registry.Activity{
			makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
		}
		second, err := svc.ForceRefresh(context.Background(), tenantID)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, 0, first.TotalActivities)
		assert.Equal(t, 1, second.TotalActivities)

		cached, err := svc.Snapshot(context.Background(), tenantID)
		require.NoError(t, err)
		assert.Same(t, second, cached)
	})
}

func TestService_DataForModule(t *testing.T) {
	t.Run("projects the aggregate for the dashboard", func(t *testing.T) {
		tenantID := uuid.New()
		activities := &stubActivities{rows: []registry.Activity{
			makeActivity(t, tenantID, registry.ActivityStatusCertified, registry.RiskLevelLow),
			makeActivity(t, tenantID, registry.ActivityStatusDraft, registry.RiskLevelLow),
		}}
		svc := newTestService(t, activities)

		data, err := svc.DataForModule(context.Background(), ModuleDashboardDPO, tenantID)
		require.NoError(t, err)

		view, ok := data.(DashboardDPOView)
		require.True(t, ok)
		assert.Equal(t, 2, view.RatsActivos)
		assert.Equal(t, 50, view.Cumplimiento)
	})

	t.Run("unknown module returns the raw aggregate", func(t *testing.T) {
		tenantID := uuid.New()
		svc := newTestService(t, &stubActivities{})

		data, err := svc.DataForModule(context.Background(), Module("Typo"), tenantID)
		require.NoError(t, err)

		_, ok := data.(*TenantAggregate)
		assert.True(t, ok)
	})
}

func TestService_EventHandling(t *testing.T) {
	t.Run("a write-path domain event invalidates and refreshes the tenant", func(t *testing.T) {
		tenantID := uuid.New()
		activities := &stubActivities{}
		svc := newTestService(t, activities)

		_, err := svc.Snapshot(context.Background(), tenantID)
		require.NoError(t, err)
		require.Equal(t, int32(1), activities.calls.Load())

		act, err := registry.NewActivity(tenantID, "CCTV", "Security", "legitimate_interest")
		require.NoError(t, err)

		err = svc.Handle(context.Background(), act.GetDomainEvents()[0])
		require.NoError(t, err)

		assert.Equal(t, int32(2), activities.calls.Load())
	})

	t.Run("subscribes to registry, evaluation and task events", func(t *testing.T) {
		svc := newTestService(t, &stubActivities{})

		types := svc.EventTypes()

		assert.Contains(t, types, registry.EventTypeActivityCreated)
		assert.Contains(t, types, registry.EventTypeActivityCertified)
		assert.NotEmpty(t, types)
	})
}

func TestService_AutoSync(t *testing.T) {
	t.Run("refreshes on the configured interval until stopped", func(t *testing.T) {
		tenantID := uuid.New()
		activities := &stubActivities{}
		svc := newTestService(t, activities)

		svc.StartAutoSync(tenantID, 20*time.Millisecond)
		time.Sleep(70 * time.Millisecond)
		svc.StopAutoSync()

		refreshed := activities.calls.Load()
		assert.GreaterOrEqual(t, refreshed, int32(2))

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, refreshed, activities.calls.Load())
	})

	t.Run("a second start replaces the running loop", func(t *testing.T) {
		tenantA, tenantB := uuid.New(), uuid.New()
		activities := &stubActivities{}
		svc := newTestService(t, activities)

		svc.StartAutoSync(tenantA, time.Hour)
		svc.StartAutoSync(tenantB, 20*time.Millisecond)
		defer svc.StopAutoSync()

		time.Sleep(50 * time.Millisecond)

		// Only the second loop is ticking; the hour-interval loop is gone
		assert.GreaterOrEqual(t, activities.calls.Load(), int32(1))
	})
}
