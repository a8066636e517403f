package sync

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Callback receives a freshly computed aggregate for a tenant
type Callback func(agg *TenantAggregate)

type subscriptionKey struct {
	consumer string
	tenantID uuid.UUID
}

type subscription struct {
	callback Callback
	// generation guards the unsubscribe capability: re-subscribing with
	// the same key replaces the callback, and a stale unsubscribe from
	// the earlier registration must not remove the new one.
	generation uint64
}

// SubscriberRegistry maps (consumer, tenant) pairs to callbacks and
// broadcasts aggregates to every consumer of a tenant.
type SubscriberRegistry struct {
	mu         sync.RWMutex
	subs       map[subscriptionKey]*subscription
	generation uint64
	logger     *zap.Logger
}

// NewSubscriberRegistry creates an empty subscriber registry
func NewSubscriberRegistry(logger *zap.Logger) *SubscriberRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriberRegistry{
		subs:   make(map[subscriptionKey]*subscription),
		logger: logger,
	}
}

// Subscribe registers a callback for a (consumer, tenant) pair and
// returns the capability to remove it. Registering the same pair again
// replaces the previous callback; last registration wins.
func (r *SubscriberRegistry) Subscribe(consumer string, tenantID uuid.UUID, callback Callback) func() {
	key := subscriptionKey{consumer: consumer, tenantID: tenantID}

	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.subs[key] = &subscription{callback: callback, generation: gen}
	r.mu.Unlock()

	r.logger.Debug("subscriber registered",
		zap.String("consumer", consumer),
		zap.String("tenant_id", tenantID.String()))

	return func() {
		r.mu.Lock()
		if sub, ok := r.subs[key]; ok && sub.generation == gen {
			delete(r.subs, key)
		}
		r.mu.Unlock()
	}
}

// Notify invokes every callback registered for the tenant. A panicking
// callback never prevents delivery to the rest; there is no ordering
// guarantee across callbacks. Returns the number of callbacks invoked.
func (r *SubscriberRegistry) Notify(tenantID uuid.UUID, agg *TenantAggregate) int {
	r.mu.RLock()
	callbacks := make([]Callback, 0)
	consumers := make([]string, 0)
	for key, sub := range r.subs {
		if key.tenantID == tenantID {
			callbacks = append(callbacks, sub.callback)
			consumers = append(consumers, key.consumer)
		}
	}
	r.mu.RUnlock()

	for i, cb := range callbacks {
		r.deliver(consumers[i], cb, agg)
	}
	return len(callbacks)
}

func (r *SubscriberRegistry) deliver(consumer string, cb Callback, agg *TenantAggregate) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("subscriber callback panicked",
				zap.String("consumer", consumer),
				zap.String("tenant_id", agg.TenantID.String()),
				zap.Any("panic", rec))
		}
	}()
	cb(agg)
}

// Count returns the number of subscribers for a tenant
func (r *SubscriberRegistry) Count(tenantID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for key := range r.subs {
		if key.tenantID == tenantID {
			count++
		}
	}
	return count
}
