package sync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapterRegistry_Adapt(t *testing.T) {
	agg := &TenantAggregate{
		TenantID:             uuid.New(),
		CapturedAt:           time.Now(),
		TotalActivities:      5,
		CertifiedActivities:  3,
		DraftActivities:      2,
		PendingEvaluations:   1,
		PendingTasks:         4,
		UnreadNotifications:  2,
		CompliancePercentage: 60,
		CoverageRatio:        100,
	}

	t.Run("dashboard projection carries the expected fields", func(t *testing.T) {
		reg := NewAdapterRegistry()

		view, ok := reg.Adapt(ModuleDashboardDPO, agg).(DashboardDPOView)

		require.True(t, ok)
		assert.Equal(t, 5, view.RatsActivos)
		assert.Equal(t, 1, view.EipdsPendientes)
		assert.Equal(t, 60, view.Cumplimiento)
		assert.Equal(t, 4, view.TareasPendientes)
	})

	t.Run("list projection re-slices without re-querying", func(t *testing.T) {
		reg := NewAdapterRegistry()

		view, ok := reg.Adapt(ModuleActivityList, agg).(ActivityListView)

		require.True(t, ok)
		assert.Equal(t, 5, view.Total)
		assert.Equal(t, 3, view.Certificados)
		assert.Equal(t, 2, view.Borradores)
	})

	t.Run("projection is pure and never mutates the aggregate", func(t *testing.T) {
		reg := NewAdapterRegistry()
		before := *agg

		first := reg.Adapt(ModuleDashboardDPO, agg)
		second := reg.Adapt(ModuleDashboardDPO, agg)

		assert.Equal(t, first, second)
		assert.Equal(t, before, *agg)
	})

	t.Run("unknown module falls back to the raw aggregate", func(t *testing.T) {
		reg := NewAdapterRegistry()

		got := reg.Adapt(Module("NoSuchScreen"), agg)

		assert.Same(t, agg, got)
	})

	t.Run("registered projection replaces the built-in one", func(t *testing.T) {
		reg := NewAdapterRegistry()
		reg.Register(ModuleDashboardDPO, func(a *TenantAggregate) any {
			return a.TotalActivities
		})

		got := reg.Adapt(ModuleDashboardDPO, agg)

		assert.Equal(t, 5, got)
	})

	t.Run("nil aggregate projects to nil", func(t *testing.T) {
		reg := NewAdapterRegistry()
		assert.Nil(t, reg.Adapt(ModuleDashboardDPO, nil))
	})
}
