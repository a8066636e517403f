// Package telemetry provides OpenTelemetry instrumentation for the
// aggregate synchronization layer.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/lpdp/backend/sync"

// SyncMetrics records cache and refresh activity for tenant aggregates.
// All methods are safe to call on a nil receiver, which disables recording.
type SyncMetrics struct {
	cacheHits         metric.Int64Counter
	cacheMisses       metric.Int64Counter
	refreshes         metric.Int64Counter
	refreshFailures   metric.Int64Counter
	broadcastFailures metric.Int64Counter
}

// NewSyncMetrics creates sync metrics on the global meter provider.
// Without a configured SDK the instruments are no-ops.
func NewSyncMetrics() (*SyncMetrics, error) {
	meter := otel.Meter(meterName)

	m := &SyncMetrics{}
	var err error

	m.cacheHits, err = meter.Int64Counter(
		"lpdp_sync_cache_hits_total",
		metric.WithDescription("Aggregate cache hits"),
	)
	if err != nil {
		return nil, err
	}

	m.cacheMisses, err = meter.Int64Counter(
		"lpdp_sync_cache_misses_total",
		metric.WithDescription("Aggregate cache misses"),
	)
	if err != nil {
		return nil, err
	}

	m.refreshes, err = meter.Int64Counter(
		"lpdp_sync_refreshes_total",
		metric.WithDescription("Aggregate recomputations"),
	)
	if err != nil {
		return nil, err
	}

	m.refreshFailures, err = meter.Int64Counter(
		"lpdp_sync_refresh_failures_total",
		metric.WithDescription("Failed aggregate recomputations"),
	)
	if err != nil {
		return nil, err
	}

	m.broadcastFailures, err = meter.Int64Counter(
		"lpdp_sync_broadcast_failures_total",
		metric.WithDescription("Subscriber callbacks that panicked during broadcast"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCacheHit records a cache hit for a tenant
func (m *SyncMetrics) RecordCacheHit(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("tenant_id", tenantID)))
}

// RecordCacheMiss records a cache miss for a tenant
func (m *SyncMetrics) RecordCacheMiss(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("tenant_id", tenantID)))
}

// RecordRefresh records a completed aggregate recomputation
func (m *SyncMetrics) RecordRefresh(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.refreshes.Add(ctx, 1, metric.WithAttributes(attribute.String("tenant_id", tenantID)))
}

// RecordRefreshFailure records a failed aggregate recomputation
func (m *SyncMetrics) RecordRefreshFailure(ctx context.Context, tenantID string) {
	if m == nil {
		return
	}
	m.refreshFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("tenant_id", tenantID)))
}

// RecordBroadcastFailure records a subscriber callback failure
func (m *SyncMetrics) RecordBroadcastFailure(ctx context.Context, consumer string) {
	if m == nil {
		return
	}
	m.broadcastFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("consumer", consumer)))
}
