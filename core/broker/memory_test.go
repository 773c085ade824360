package broker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/substore/core/broker"
)

func next(t *testing.T, m *broker.Memory) broker.Event {
	t.Helper()

	select {
	case evt, ok := <-m.Events():
		require.True(t, ok, "event stream closed")
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return broker.Event{}
	}
}

func TestMemory_SubscribeAcks(t *testing.T) {
	t.Parallel()

	m := broker.NewMemory()
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Subscribe(ctx, "orders", "alerts"))

	assert.Equal(t, broker.Subscribed("orders", 1), next(t, m))
	assert.Equal(t, broker.Subscribed("alerts", 2), next(t, m))
	assert.Equal(t, []string{"alerts", "orders"}, m.Subscriptions())
}

func TestMemory_SubscribeWithoutChannels(t *testing.T) {
	t.Parallel()

	m := broker.NewMemory()
	defer m.Close()

	assert.ErrorIs(t, m.Subscribe(context.Background()), broker.ErrNoChannels)
}

func TestMemory_PublishDeliversToSubscribedOnly(t *testing.T) {
	t.Parallel()

	m := broker.NewMemory()
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Subscribe(ctx, "orders"))
	next(t, m)

	require.NoError(t, m.Publish(ctx, "other", "ignored"))
	require.NoError(t, m.Publish(ctx, "orders", "m1"))

	assert.Equal(t, broker.Message("orders", "m1"), next(t, m))
}

func TestMemory_UnsubscribeAll(t *testing.T) {
	t.Parallel()

	m := broker.NewMemory()
	defer m.Close()

	ctx := context.Background()

	t.Run("without subscriptions", func(t *testing.T) {
		require.NoError(t, m.UnsubscribeAll(ctx))
		assert.Equal(t, broker.Unsubscribed("", 0), next(t, m))
	})

	t.Run("with subscriptions", func(t *testing.T) {
		require.NoError(t, m.Subscribe(ctx, "b", "a"))
		next(t, m)
		next(t, m)

		require.NoError(t, m.UnsubscribeAll(ctx))
		assert.Equal(t, broker.Unsubscribed("a", 1), next(t, m))
		assert.Equal(t, broker.Unsubscribed("b", 0), next(t, m))
		assert.Empty(t, m.Subscriptions())
	})
}

func TestMemory_Fail(t *testing.T) {
	t.Parallel()

	m := broker.NewMemory()
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Subscribe(ctx, "orders"))
	next(t, m)

	boom := errors.New("connection reset")
	require.NoError(t, m.Fail(ctx, boom))

	evt := next(t, m)
	assert.Equal(t, broker.EventError, evt.Kind)
	assert.ErrorIs(t, evt.Err, boom)
	assert.Empty(t, m.Subscriptions(), "failure drops subscriptions")
}

func TestMemory_Close(t *testing.T) {
	t.Parallel()

	m := broker.NewMemory()

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- m.Listen(context.Background())
	}()

	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")

	select {
	case err := <-listenErr:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after Close")
	}

	_, ok := <-m.Events()
	assert.False(t, ok, "event stream is closed")

	ctx := context.Background()
	assert.ErrorIs(t, m.Subscribe(ctx, "x"), broker.ErrConnectorClosed)
	assert.ErrorIs(t, m.UnsubscribeAll(ctx), broker.ErrConnectorClosed)
	assert.ErrorIs(t, m.Publish(ctx, "x", "m"), broker.ErrConnectorClosed)
	assert.ErrorIs(t, m.Ping(ctx), broker.ErrConnectorClosed)
}

func TestMemory_EmitRespectsContext(t *testing.T) {
	t.Parallel()

	m := broker.NewMemory(broker.WithBufferSize(1))
	defer m.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Second ack cannot be queued while nobody drains the stream.
	err := m.Subscribe(ctx, "a", "b")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestEventKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "message", broker.EventMessage.String())
	assert.Equal(t, "subscribe", broker.EventSubscribe.String())
	assert.Equal(t, "unsubscribe", broker.EventUnsubscribe.String())
	assert.Equal(t, "error", broker.EventError.String())
	assert.Equal(t, "unknown", broker.EventKind(0).String())
}
