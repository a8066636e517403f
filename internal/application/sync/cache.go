package sync

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

// AggregateCache is an in-memory TTL cache of tenant aggregates.
// An entry is valid only while now - CapturedAt < TTL; past that the
// entry reads as a miss and is lazily evicted.
type AggregateCache struct {
	entries sync.Map // map[uuid.UUID]*cacheEntry
	ttl     time.Duration
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type cacheEntry struct {
	aggregate *TenantAggregate
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// AggregateCacheOption is a functional option for configuring the cache
type AggregateCacheOption func(*AggregateCache)

// WithCacheTTL sets the freshness window
func WithCacheTTL(ttl time.Duration) AggregateCacheOption {
	return func(c *AggregateCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) AggregateCacheOption {
	return func(c *AggregateCache) {
		c.logger = logger
	}
}

// NewAggregateCache creates a new aggregate cache with a 30s default TTL
func NewAggregateCache(opts ...AggregateCacheOption) *AggregateCache {
	cache := &AggregateCache{
		ttl:    30 * time.Second,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// TTL returns the configured freshness window
func (c *AggregateCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached aggregate for a tenant if still fresh
func (c *AggregateCache) Get(tenantID uuid.UUID) (*TenantAggregate, bool) {
	if value, ok := c.entries.Load(tenantID); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("aggregate cache hit", zap.String("tenant_id", tenantID.String()))
			return entry.aggregate, true
		}
		c.entries.Delete(tenantID)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("aggregate cache miss", zap.String("tenant_id", tenantID.String()))
	return nil, false
}

// Put stores or replaces the entry for a tenant, restarting its TTL
func (c *AggregateCache) Put(agg *TenantAggregate) {
	if agg == nil {
		return
	}
	c.entries.Store(agg.TenantID, &cacheEntry{
		aggregate: agg,
		expiresAt: time.Now().Add(c.ttl),
	})
}

// PutIfNewer stores the aggregate only if its sequence is greater than
// the currently cached one, expired or not. Returns false when the
// aggregate was superseded by a newer computation.
func (c *AggregateCache) PutIfNewer(agg *TenantAggregate) bool {
	if agg == nil {
		return false
	}
	if value, ok := c.entries.Load(agg.TenantID); ok {
		entry := value.(*cacheEntry)
		if entry.aggregate.Sequence >= agg.Sequence {
			c.logger.Debug("discarding superseded aggregate",
				zap.String("tenant_id", agg.TenantID.String()),
				zap.Uint64("sequence", agg.Sequence),
				zap.Uint64("cached_sequence", entry.aggregate.Sequence))
			return false
		}
	}
	c.Put(agg)
	return true
}

// Invalidate removes the entry for a tenant unconditionally
func (c *AggregateCache) Invalidate(tenantID uuid.UUID) {
	c.entries.Delete(tenantID)
	c.logger.Debug("aggregate cache invalidated", zap.String("tenant_id", tenantID.String()))
}

// InvalidateAll removes every cached entry
func (c *AggregateCache) InvalidateAll() {
	c.entries.Range(func(key, _ any) bool {
		c.entries.Delete(key)
		return true
	})
	c.logger.Info("invalidated all cached aggregates")
}

// Stats returns cache hit/miss counters
func (c *AggregateCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the background cleanup goroutine
func (c *AggregateCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// cleanupExpired periodically removes expired entries
func (c *AggregateCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value any) bool {
				if value.(*cacheEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
