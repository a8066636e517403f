package sync

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAggregateCache_Get(t *testing.T) {
	t.Run("returns stored aggregate unchanged while fresh", func(t *testing.T) {
		cache := NewAggregateCache(WithCacheTTL(time.Minute))
		defer cache.Close()

		tenantID := uuid.New()
		agg := &TenantAggregate{
			TenantID:             tenantID,
			CapturedAt:           time.Now(),
			TotalActivities:      5,
			CompliancePercentage: 60,
		}
		cache.Put(agg)

		got, ok := cache.Get(tenantID)

		assert.True(t, ok)
		assert.Same(t, agg, got)
	})

	t.Run("misses after TTL elapses", func(t *testing.T) {
		cache := NewAggregateCache(WithCacheTTL(30 * time.Millisecond))
		defer cache.Close()

		tenantID := uuid.New()
		cache.Put(&TenantAggregate{TenantID: tenantID, CapturedAt: time.Now()})

		time.Sleep(60 * time.Millisecond)

		got, ok := cache.Get(tenantID)
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("misses for unknown tenant", func(t *testing.T) {
		cache := NewAggregateCache()
		defer cache.Close()

		_, ok := cache.Get(uuid.New())
		assert.False(t, ok)
	})
}

func TestAggregateCache_Put(t *testing.T) {
	t.Run("replaces the entry wholesale", func(t *testing.T) {
		cache := NewAggregateCache(WithCacheTTL(time.Minute))
		defer cache.Close()

		tenantID := uuid.New()
		first := &TenantAggregate{TenantID: tenantID, CapturedAt: time.Now(), TotalActivities: 2, Sequence: 1}
		cache.Put(first)

		time.Sleep(time.Millisecond)
		second := &TenantAggregate{TenantID: tenantID, CapturedAt: time.Now(), TotalActivities: 7, Sequence: 2}
		cache.Put(second)

		got, ok := cache.Get(tenantID)
		assert.True(t, ok)
		assert.Same(t, second, got)
		assert.True(t, got.CapturedAt.After(first.CapturedAt))
	})
}

func TestAggregateCache_PutIfNewer(t *testing.T) {
	t.Run("rejects a superseded computation", func(t *testing.T) {
		cache := NewAggregateCache(WithCacheTTL(time.Minute))
		defer cache.Close()

		tenantID := uuid.New()
		newer := &TenantAggregate{TenantID: tenantID, CapturedAt: time.Now(), Sequence: 5}
		assert.True(t, cache.PutIfNewer(newer))

		stale := &TenantAggregate{TenantID: tenantID, CapturedAt: time.Now(), Sequence: 3}
		assert.False(t, cache.PutIfNewer(stale))

		got, ok := cache.Get(tenantID)
		assert.True(t, ok)
		assert.Same(t, newer, got)
	})

	t.Run("accepts a newer computation", func(t *testing.T) {
		cache := NewAggregateCache(WithCacheTTL(time.Minute))
		defer cache.Close()

		tenantID := uuid.New()
		assert.True(t, cache.PutIfNewer(&TenantAggregate{TenantID: tenantID, Sequence: 1}))
		assert.True(t, cache.PutIfNewer(&TenantAggregate{TenantID: tenantID, Sequence: 2}))
	})
}

func TestAggregateCache_Invalidate(t *testing.T) {
	t.Run("removes the entry unconditionally", func(t *testing.T) {
		cache := NewAggregateCache(WithCacheTTL(time.Minute))
		defer cache.Close()

		tenantID := uuid.New()
		cache.Put(&TenantAggregate{TenantID: tenantID})
		cache.Invalidate(tenantID)

		_, ok := cache.Get(tenantID)
		assert.False(t, ok)
	})

	t.Run("invalidate all clears every tenant", func(t *testing.T) {
		cache := NewAggregateCache(WithCacheTTL(time.Minute))
		defer cache.Close()

		a, b := uuid.New(), uuid.New()
		cache.Put(&TenantAggregate{TenantID: a})
		cache.Put(&TenantAggregate{TenantID: b})
		cache.InvalidateAll()

		_, okA := cache.Get(a)
		_, okB := cache.Get(b)
		assert.False(t, okA)
		assert.False(t, okB)
	})
}

func TestAggregateCache_Stats(t *testing.T) {
	cache := NewAggregateCache(WithCacheTTL(time.Minute))
	defer cache.Close()

	tenantID := uuid.New()
	cache.Put(&TenantAggregate{TenantID: tenantID})

	cache.Get(tenantID)
	cache.Get(uuid.New())

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
