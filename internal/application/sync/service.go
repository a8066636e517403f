package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/lpdp/backend/internal/domain/evaluation"
	"github.com/lpdp/backend/internal/domain/registry"
	"github.com/lpdp/backend/internal/domain/shared"
	"github.com/lpdp/backend/internal/domain/task"
	"github.com/lpdp/backend/internal/infrastructure/telemetry"
)

// Invalidation reasons, carried for observability only; every reason is
// handled identically.
const (
	ReasonRATCreated    = "RAT_CREATED"
	ReasonRATUpdated    = "RAT_UPDATED"
	ReasonEIPDGenerated = "EIPD_GENERATED"
	ReasonTaskCreated   = "TASK_CREATED"
	ReasonAutoSync      = "AUTO_SYNC"
	ReasonForceRefresh  = "FORCE_REFRESH"
	ReasonDomainEvent   = "DOMAIN_EVENT"
)

// CrossInstanceInvalidator broadcasts invalidations to other instances
// sharing the same database.
type CrossInstanceInvalidator interface {
	PublishTenantInvalidation(ctx context.Context, tenantID uuid.UUID, reason string) error
}

// Service owns the cache, the subscriber registry and the projection
// registry for tenant aggregates. It is an explicit, constructed object:
// tests and composition roots instantiate isolated instances instead of
// sharing process-wide state.
type Service struct {
	aggregator  *Aggregator
	cache       *AggregateCache
	subscribers *SubscriberRegistry
	adapters    *AdapterRegistry
	invalidator CrossInstanceInvalidator
	metrics     *telemetry.SyncMetrics
	logger      *zap.Logger

	// inflight deduplicates concurrent cache misses per tenant: a miss
	// first joins an in-progress computation instead of starting its own.
	inflight singleflight.Group
	// seq orders computations so a slow stale result cannot overwrite a
	// newer one.
	seq atomic.Uint64

	// Single auto-sync timer per service instance: a second StartAutoSync
	// replaces the running loop rather than adding another.
	autoMu     sync.Mutex
	autoCancel context.CancelFunc
	autoWg     sync.WaitGroup

	closeOnce sync.Once
}

// ServiceOption is a functional option for configuring the service
type ServiceOption func(*Service)

// WithServiceLogger sets the logger
func WithServiceLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithServiceCache sets a pre-built cache (e.g. with a custom TTL)
func WithServiceCache(cache *AggregateCache) ServiceOption {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithCrossInstanceInvalidator enables cross-instance invalidation
func WithCrossInstanceInvalidator(inv CrossInstanceInvalidator) ServiceOption {
	return func(s *Service) {
		s.invalidator = inv
	}
}

// WithServiceMetrics sets the sync metrics recorder
func WithServiceMetrics(m *telemetry.SyncMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithServiceAdapters sets a custom projection registry
func WithServiceAdapters(adapters *AdapterRegistry) ServiceOption {
	return func(s *Service) {
		s.adapters = adapters
	}
}

// NewService creates a sync service around an aggregator
func NewService(aggregator *Aggregator, opts ...ServiceOption) *Service {
	s := &Service{
		aggregator: aggregator,
		adapters:   NewAdapterRegistry(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		s.cache = NewAggregateCache(WithCacheLogger(s.logger))
	}
	s.subscribers = NewSubscriberRegistry(s.logger)

	return s
}

// Snapshot returns the tenant's aggregate, serving from cache while
// fresh and recomputing on a miss. Concurrent misses for the same
// tenant share one computation.
func (s *Service) Snapshot(ctx context.Context, tenantID uuid.UUID) (*TenantAggregate, error) {
	if tenantID == uuid.Nil {
		return nil, newAggregationError(ErrorKindMissingTenant, tenantID, nil)
	}

	if agg, ok := s.cache.Get(tenantID); ok {
		s.metrics.RecordCacheHit(ctx, tenantID.String())
		return agg, nil
	}
	s.metrics.RecordCacheMiss(ctx, tenantID.String())

	return s.refresh(ctx, tenantID)
}

// InvalidateAndRefresh clears the tenant's cache entry, recomputes the
// aggregate and broadcasts it to subscribers. Called without a tenant it
// is a no-op.
func (s *Service) InvalidateAndRefresh(ctx context.Context, tenantID uuid.UUID, reason string) (*TenantAggregate, error) {
	if tenantID == uuid.Nil {
		return nil, nil
	}

	s.logger.Debug("invalidating tenant aggregate",
		zap.String("tenant_id", tenantID.String()),
		zap.String("reason", reason))

	s.cache.Invalidate(tenantID)

	if s.invalidator != nil {
		if err := s.invalidator.PublishTenantInvalidation(ctx, tenantID, reason); err != nil {
			// Best effort: other instances fall back to TTL expiry
			s.logger.Warn("cross-instance invalidation failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		}
	}

	return s.refresh(ctx, tenantID)
}

// ForceRefresh recomputes and broadcasts the tenant's aggregate
func (s *Service) ForceRefresh(ctx context.Context, tenantID uuid.UUID) (*TenantAggregate, error) {
	return s.InvalidateAndRefresh(ctx, tenantID, ReasonForceRefresh)
}

// refresh computes a new aggregate through the per-tenant single-flight
// group, applies it to the cache if not superseded and notifies
// subscribers.
func (s *Service) refresh(ctx context.Context, tenantID uuid.UUID) (*TenantAggregate, error) {
	v, err, _ := s.inflight.Do(tenantID.String(), func() (any, error) {
		seq := s.seq.Add(1)

		agg, err := s.aggregator.ComputeAggregate(ctx, tenantID)
		if err != nil {
			s.metrics.RecordRefreshFailure(ctx, tenantID.String())
			return nil, err
		}
		agg.Sequence = seq

		if s.cache.PutIfNewer(agg) {
			s.metrics.RecordRefresh(ctx, tenantID.String())
			delivered := s.subscribers.Notify(tenantID, agg)
			s.logger.Debug("aggregate broadcast",
				zap.String("tenant_id", tenantID.String()),
				zap.Int("subscribers", delivered))
		}

		return agg, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TenantAggregate), nil
}

// Subscribe registers a consumer callback for a tenant and returns the
// unsubscribe capability. Re-subscribing with the same consumer name
// replaces the previous callback.
func (s *Service) Subscribe(consumer string, tenantID uuid.UUID, callback Callback) func() {
	if tenantID == uuid.Nil {
		return func() {}
	}
	return s.subscribers.Subscribe(consumer, tenantID, callback)
}

// DataForModule returns the tenant's aggregate projected for a consumer
// module. Unknown modules receive the raw aggregate.
func (s *Service) DataForModule(ctx context.Context, module Module, tenantID uuid.UUID) (any, error) {
	agg, err := s.Snapshot(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return s.adapters.Adapt(module, agg), nil
}

// InvalidateLocal drops the tenant's cache entry without recomputing or
// re-broadcasting. Used when another instance already refreshed.
func (s *Service) InvalidateLocal(tenantID uuid.UUID) {
	if tenantID == uuid.Nil {
		s.cache.InvalidateAll()
		return
	}
	s.cache.Invalidate(tenantID)
}

// CacheStats exposes cache hit/miss counters
func (s *Service) CacheStats() (hits, misses int64) {
	return s.cache.Stats()
}

// OnActivityCreated invalidates after a processing activity is created
func (s *Service) OnActivityCreated(ctx context.Context, tenantID uuid.UUID) {
	_, _ = s.InvalidateAndRefresh(ctx, tenantID, ReasonRATCreated)
}

// OnActivityUpdated invalidates after a processing activity changes
func (s *Service) OnActivityUpdated(ctx context.Context, tenantID uuid.UUID) {
	_, _ = s.InvalidateAndRefresh(ctx, tenantID, ReasonRATUpdated)
}

// OnEvaluationGenerated invalidates after an impact evaluation is created
func (s *Service) OnEvaluationGenerated(ctx context.Context, tenantID uuid.UUID) {
	_, _ = s.InvalidateAndRefresh(ctx, tenantID, ReasonEIPDGenerated)
}

// OnTaskCreated invalidates after a DPO task is created
func (s *Service) OnTaskCreated(ctx context.Context, tenantID uuid.UUID) {
	_, _ = s.InvalidateAndRefresh(ctx, tenantID, ReasonTaskCreated)
}

// Handle implements shared.EventHandler: any write-path domain event for
// a tenant invalidates and refreshes that tenant's aggregate, so the
// sync layer observes mutations without every caller remembering a hook.
func (s *Service) Handle(ctx context.Context, event shared.DomainEvent) error {
	_, err := s.InvalidateAndRefresh(ctx, event.TenantID(), event.EventType())
	return err
}

// EventTypes returns the domain events that feed the aggregate
func (s *Service) EventTypes() []string {
	return []string{
		registry.EventTypeActivityCreated,
		registry.EventTypeActivityUpdated,
		registry.EventTypeActivityCertified,
		registry.EventTypeActivityArchived,
		evaluation.EventTypeEvaluationGenerated,
		evaluation.EventTypeEvaluationApproved,
		evaluation.EventTypeEvaluationRejected,
		task.EventTypeTaskCreated,
		task.EventTypeTaskCompleted,
	}
}

// StartAutoSync installs a recurring refresh for one tenant. There is
// one auto-sync loop per service instance: calling StartAutoSync again
// replaces the running loop.
func (s *Service) StartAutoSync(tenantID uuid.UUID, interval time.Duration) {
	if tenantID == uuid.Nil {
		return
	}
	if interval <= 0 {
		interval = 60 * time.Second
	}

	s.autoMu.Lock()
	defer s.autoMu.Unlock()

	if s.autoCancel != nil {
		s.autoCancel()
		s.autoWg.Wait()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.autoCancel = cancel

	s.autoWg.Add(1)
	go func() {
		defer s.autoWg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.InvalidateAndRefresh(ctx, tenantID, ReasonAutoSync); err != nil {
					s.logger.Warn("auto-sync refresh failed",
						zap.String("tenant_id", tenantID.String()),
						zap.Error(err))
				}
			}
		}
	}()

	s.logger.Info("auto-sync started",
		zap.String("tenant_id", tenantID.String()),
		zap.Duration("interval", interval))
}

// StopAutoSync cancels the auto-sync loop if one is running
func (s *Service) StopAutoSync() {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()

	if s.autoCancel != nil {
		s.autoCancel()
		s.autoWg.Wait()
		s.autoCancel = nil
		s.logger.Info("auto-sync stopped")
	}
}

// Close stops the auto-sync loop and the cache cleanup goroutine
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.StopAutoSync()
		_ = s.cache.Close()
	})
	return nil
}

// Ensure Service can subscribe to the event bus
var _ shared.EventHandler = (*Service)(nil)
