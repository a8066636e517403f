package event

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/lpdp/backend/internal/domain/shared"
)

type countingHandler struct {
	types  []string
	calls  atomic.Int32
	panics bool
}

func (h *countingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.calls.Add(1)
	if h.panics {
		panic("handler blew up")
	}
	return nil
}

func (h *countingHandler) EventTypes() []string {
	return h.types
}

func newTestEvent(eventType string) shared.DomainEvent {
	e := shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())
	return &e
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers events to subscribed handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &countingHandler{types: []string{"test.created"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("test.created"))

		assert.NoError(t, err)
		assert.Equal(t, int32(1), handler.calls.Load())
	})

	t.Run("does not deliver unrelated event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &countingHandler{types: []string{"test.created"}}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("test.deleted"))

		assert.NoError(t, err)
		assert.Equal(t, int32(0), handler.calls.Load())
	})

	t.Run("panicking handler does not block other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		bad := &countingHandler{types: []string{"test.created"}, panics: true}
		good := &countingHandler{types: []string{"test.created"}}
		bus.Subscribe(bad)
		bus.Subscribe(good)

		err := bus.Publish(context.Background(), newTestEvent("test.created"))

		assert.NoError(t, err)
		assert.Equal(t, int32(1), bad.calls.Load())
		assert.Equal(t, int32(1), good.calls.Load())
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &countingHandler{}
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(),
			newTestEvent("test.created"),
			newTestEvent("test.deleted"),
		)

		assert.NoError(t, err)
		assert.Equal(t, int32(2), handler.calls.Load())
	})
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	t.Run("unsubscribed handler stops receiving events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &countingHandler{types: []string{"test.created"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("test.created"))

		assert.NoError(t, err)
		assert.Equal(t, int32(0), handler.calls.Load())
	})
}
