package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/infrastructure/config"
)

const defaultCloseTimeout = 5 * time.Second

// InvalidationMessage is broadcast over Redis Pub/Sub when a tenant's
// cached aggregate must be discarded on every instance.
type InvalidationMessage struct {
	TenantID  uuid.UUID `json:"tenant_id"`           // uuid.Nil means invalidate all tenants
	Reason    string    `json:"reason,omitempty"`    // originating event type, for diagnostics
	Origin    string    `json:"origin"`              // instance that published the message
	Timestamp int64     `json:"timestamp,omitempty"` // unix nanos
}

// RedisAggregateInvalidator implements cross-instance cache invalidation
// using Redis Pub/Sub
type RedisAggregateInvalidator struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	channel    string
	origin     string
	logger     *zap.Logger
	cancelFn   context.CancelFunc
	doneCh     chan struct{}
	doneOnce   sync.Once
	mu         sync.Mutex
	isRunning  bool
}

// RedisAggregateInvalidatorOption is a functional option for configuring the invalidator
type RedisAggregateInvalidatorOption func(*RedisAggregateInvalidator)

// WithInvalidatorChannel sets the Pub/Sub channel name
func WithInvalidatorChannel(channel string) RedisAggregateInvalidatorOption {
	return func(i *RedisAggregateInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger for the invalidator
func WithInvalidatorLogger(logger *zap.Logger) RedisAggregateInvalidatorOption {
	return func(i *RedisAggregateInvalidator) {
		i.logger = logger
	}
}

// NewRedisAggregateInvalidator creates a new Redis Pub/Sub invalidator
func NewRedisAggregateInvalidator(cfg config.RedisConfig, opts ...RedisAggregateInvalidatorOption) (*RedisAggregateInvalidator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	invalidator := &RedisAggregateInvalidator{
		client:     client,
		ownsClient: true,
		channel:    cfg.Channel,
		origin:     uuid.NewString(),
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator, nil
}

// NewRedisAggregateInvalidatorWithClient creates an invalidator with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisAggregateInvalidatorWithClient(client *redis.Client, channel string, opts ...RedisAggregateInvalidatorOption) *RedisAggregateInvalidator {
	invalidator := &RedisAggregateInvalidator{
		client:     client,
		ownsClient: false,
		channel:    channel,
		origin:     uuid.NewString(),
		logger:     zap.NewNop(),
		doneCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(invalidator)
	}

	return invalidator
}

// Publish sends an invalidation notification to all subscribed instances
func (i *RedisAggregateInvalidator) Publish(ctx context.Context, msg InvalidationMessage) error {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixNano()
	}
	msg.Origin = i.origin

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal invalidation message: %w", err)
	}

	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		i.logger.Error("failed to publish invalidation message",
			zap.String("channel", i.channel),
			zap.Error(err))
		return fmt.Errorf("failed to publish message: %w", err)
	}

	i.logger.Debug("published invalidation message",
		zap.String("tenant_id", msg.TenantID.String()),
		zap.String("reason", msg.Reason),
		zap.String("channel", i.channel))

	return nil
}

// PublishTenantInvalidation broadcasts an invalidation for one tenant
func (i *RedisAggregateInvalidator) PublishTenantInvalidation(ctx context.Context, tenantID uuid.UUID, reason string) error {
	return i.Publish(ctx, InvalidationMessage{TenantID: tenantID, Reason: reason})
}

// PublishInvalidateAll broadcasts an invalidate-all notification
func (i *RedisAggregateInvalidator) PublishInvalidateAll(ctx context.Context, reason string) error {
	return i.Publish(ctx, InvalidationMessage{TenantID: uuid.Nil, Reason: reason})
}

// Subscribe starts listening for invalidation notifications. Messages
// published by this instance are skipped. This method blocks and should
// be called in a goroutine.
func (i *RedisAggregateInvalidator) Subscribe(ctx context.Context, callback func(msg InvalidationMessage)) error {
	i.mu.Lock()
	if i.isRunning {
		i.mu.Unlock()
		return fmt.Errorf("subscription already running")
	}
	i.isRunning = true
	i.mu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	i.mu.Lock()
	i.cancelFn = cancel
	i.mu.Unlock()

	pubsub := i.client.Subscribe(subCtx, i.channel)
	defer pubsub.Close()

	// Wait for subscription confirmation
	if _, err := pubsub.Receive(subCtx); err != nil {
		i.mu.Lock()
		i.isRunning = false
		i.mu.Unlock()
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	i.logger.Info("subscribed to aggregate invalidation channel",
		zap.String("channel", i.channel))

	ch := pubsub.Channel()

	for {
		select {
		case <-subCtx.Done():
			i.logger.Info("aggregate invalidation subscription stopped")
			i.mu.Lock()
			i.isRunning = false
			i.mu.Unlock()
			i.markDone()
			return subCtx.Err()
		case msg, ok := <-ch:
			if !ok {
				i.logger.Warn("aggregate invalidation channel closed")
				i.mu.Lock()
				i.isRunning = false
				i.mu.Unlock()
				i.markDone()
				return nil
			}

			var invMsg InvalidationMessage
			if err := json.Unmarshal([]byte(msg.Payload), &invMsg); err != nil {
				i.logger.Error("failed to unmarshal invalidation message",
					zap.String("payload", msg.Payload),
					zap.Error(err))
				continue
			}

			// Skip our own messages, the local cache was already invalidated
			if invMsg.Origin == i.origin {
				continue
			}

			go func(m InvalidationMessage) {
				defer func() {
					if r := recover(); r != nil {
						i.logger.Error("panic in invalidation callback",
							zap.Any("panic", r))
					}
				}()
				callback(m)
			}(invMsg)
		}
	}
}

// markDone safely marks the invalidator as done
func (i *RedisAggregateInvalidator) markDone() {
	i.doneOnce.Do(func() {
		close(i.doneCh)
	})
}

// Close releases any resources held by the invalidator
func (i *RedisAggregateInvalidator) Close() error {
	i.mu.Lock()
	cancelFn := i.cancelFn
	i.mu.Unlock()

	if cancelFn != nil {
		cancelFn()
		select {
		case <-i.doneCh:
		case <-time.After(defaultCloseTimeout):
			i.logger.Warn("timeout waiting for subscription to stop")
		}
	}

	if i.ownsClient {
		return i.client.Close()
	}
	return nil
}
