package sync

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSubscriberRegistry_Notify(t *testing.T) {
	t.Run("every subscriber of the tenant receives the aggregate exactly once", func(t *testing.T) {
		reg := NewSubscriberRegistry(zap.NewNop())
		tenantID := uuid.New()
		agg := &TenantAggregate{TenantID: tenantID}

		var aCalls, bCalls int
		var aGot, bGot *TenantAggregate
		reg.Subscribe("DashboardDPO", tenantID, func(a *TenantAggregate) { aCalls++; aGot = a })
		reg.Subscribe("ListadoRATs", tenantID, func(a *TenantAggregate) { bCalls++; bGot = a })

		delivered := reg.Notify(tenantID, agg)

		assert.Equal(t, 2, delivered)
		assert.Equal(t, 1, aCalls)
		assert.Equal(t, 1, bCalls)
		assert.Same(t, agg, aGot)
		assert.Same(t, agg, bGot)
	})

	t.Run("does not notify subscribers of other tenants", func(t *testing.T) {
		reg := NewSubscriberRegistry(zap.NewNop())
		tenantA, tenantB := uuid.New(), uuid.New()

		var calls int
		reg.Subscribe("DashboardDPO", tenantB, func(*TenantAggregate) { calls++ })

		delivered := reg.Notify(tenantA, &TenantAggregate{TenantID: tenantA})

		assert.Equal(t, 0, delivered)
		assert.Equal(t, 0, calls)
	})

	t.Run("a panicking callback does not block the others", func(t *testing.T) {
		reg := NewSubscriberRegistry(zap.NewNop())
		tenantID := uuid.New()

		var survived int
		reg.Subscribe("bad", tenantID, func(*TenantAggregate) { panic("widget exploded") })
		reg.Subscribe("good", tenantID, func(*TenantAggregate) { survived++ })

		delivered := reg.Notify(tenantID, &TenantAggregate{TenantID: tenantID})

		assert.Equal(t, 2, delivered)
		assert.Equal(t, 1, survived)
	})
}

func TestSubscriberRegistry_Subscribe(t *testing.T) {
	t.Run("re-subscribing the same consumer replaces the callback", func(t *testing.T) {
		reg := NewSubscriberRegistry(zap.NewNop())
		tenantID := uuid.New()

		var first, second int
		reg.Subscribe("DashboardDPO", tenantID, func(*TenantAggregate) { first++ })
		reg.Subscribe("DashboardDPO", tenantID, func(*TenantAggregate) { second++ })

		reg.Notify(tenantID, &TenantAggregate{TenantID: tenantID})

		assert.Equal(t, 0, first)
		assert.Equal(t, 1, second)
		assert.Equal(t, 1, reg.Count(tenantID))
	})

	t.Run("unsubscribe removes the callback", func(t *testing.T) {
		reg := NewSubscriberRegistry(zap.NewNop())
		tenantID := uuid.New()

		var calls int
		unsubscribe := reg.Subscribe("DashboardDPO", tenantID, func(*TenantAggregate) { calls++ })
		unsubscribe()

		reg.Notify(tenantID, &TenantAggregate{TenantID: tenantID})

		assert.Equal(t, 0, calls)
		assert.Equal(t, 0, reg.Count(tenantID))
	})

	t.Run("a stale unsubscribe does not remove a newer registration", func(t *testing.T) {
		reg := NewSubscriberRegistry(zap.NewNop())
		tenantID := uuid.New()

		var calls int
		staleUnsubscribe := reg.Subscribe("DashboardDPO", tenantID, func(*TenantAggregate) {})
		reg.Subscribe("DashboardDPO", tenantID, func(*TenantAggregate) { calls++ })

		staleUnsubscribe()
		reg.Notify(tenantID, &TenantAggregate{TenantID: tenantID})

		assert.Equal(t, 1, calls)
	})
}
