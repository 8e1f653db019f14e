package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/giftshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New())}
}

type testHandler struct {
	eventTypes []string
	mu         sync.Mutex
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	ctx := context.Background()

	t.Run("typed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler()
		bus.Subscribe(handler, "OrderCreated")

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderCreated"), newTestEvent("OrderCreated")))
		assert.Equal(t, 2, handler.count())
	})

	t.Run("handler declared types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler("OrderStatusChanged")
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderCreated"), newTestEvent("OrderStatusChanged")))
		assert.Equal(t, 1, handler.count())
	})

	t.Run("wildcard handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler()
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(ctx, newTestEvent("Anything")))
		assert.Equal(t, 1, handler.count())
	})

	t.Run("no matching handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestHandler()
		bus.Subscribe(handler, "Other")

		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderCreated")))
		assert.Zero(t, handler.count())
	})
}

func TestInMemoryEventBus_FailingHandlersAreIsolated(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler()
	failing.err = errors.New("boom")
	panicking := newTestHandler()
	panicking.panicWith = "kaboom"
	healthy := newTestHandler()

	bus.Subscribe(failing, "OrderCreated")
	bus.Subscribe(panicking, "OrderCreated")
	bus.Subscribe(healthy, "OrderCreated")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated")))

	assert.Equal(t, 1, healthy.count())
	assert.Equal(t, 2, recorded.FilterMessage("Event handler failed").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	typed := newTestHandler()
	wildcard := newTestHandler()
	bus.Subscribe(typed, "OrderCreated", "OrderStatusChanged")
	bus.Subscribe(wildcard)

	_ = bus.Publish(ctx, newTestEvent("OrderCreated"))
	bus.Unsubscribe(typed)
	bus.Unsubscribe(wildcard)
	_ = bus.Publish(ctx, newTestEvent("OrderCreated"))

	assert.Equal(t, 1, typed.count())
	assert.Equal(t, 1, wildcard.count())
	assert.Empty(t, bus.byType)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderCreated")))

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))

	assert.ErrorIs(t, bus.Publish(ctx, newTestEvent("OrderCreated")), ErrBusStopped)

	require.NoError(t, bus.Start(ctx))
	assert.NoError(t, bus.Publish(ctx, newTestEvent("OrderCreated")))
}
