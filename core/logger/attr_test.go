package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/substore/core/logger"
)

func TestGroup(t *testing.T) {
	t.Parallel()
	attr := logger.Group("pending", slog.Int("subscribe", 1), slog.Int("unsubscribe", 2))
	require.Equal(t, "pending", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "subscribe", g[0].Key)
	assert.Equal(t, "unsubscribe", g[1].Key)
}

// ============================================================================
// Error Handling Tests
// ============================================================================

func TestErrors(t *testing.T) {
	t.Parallel()
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	empty := logger.Errors(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	t.Parallel()
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	empty := logger.Error(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

// ============================================================================
// Timing Tests
// ============================================================================

func TestDuration(t *testing.T) {
	t.Parallel()
	d := 700 * time.Millisecond
	attr := logger.Duration(d)
	require.Equal(t, "duration", attr.Key)
	assert.Equal(t, d, attr.Value.Duration())
}

func TestElapsed(t *testing.T) {
	t.Parallel()
	start := time.Now().Add(-500 * time.Millisecond)
	attr := logger.Elapsed(start)
	require.Equal(t, "elapsed", attr.Key)
	assert.GreaterOrEqual(t, attr.Value.Duration(), 500*time.Millisecond)
}

// ============================================================================
// Identifier Tests
// ============================================================================

func TestID(t *testing.T) {
	t.Parallel()

	attr := logger.ID("subscription_id", "123")
	require.Equal(t, "subscription_id", attr.Key)
	assert.Equal(t, "123", attr.Value.Any())

	// slog may store ints as int64
	attr = logger.ID("count", 42)
	assert.EqualValues(t, 42, attr.Value.Any())

	empty := logger.ID("key", nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestClientID(t *testing.T) {
	t.Parallel()
	attr := logger.ClientID("c-1")
	require.Equal(t, "client_id", attr.Key)
	assert.Equal(t, "c-1", attr.Value.String())

	empty := logger.ClientID("")
	assert.True(t, empty.Equal(slog.Attr{}))
}

// ============================================================================
// Pub/Sub Tests
// ============================================================================

func TestChannel(t *testing.T) {
	t.Parallel()
	attr := logger.Channel("orders")
	require.Equal(t, "channel", attr.Key)
	assert.Equal(t, "orders", attr.Value.String())
}

func TestChannels(t *testing.T) {
	t.Parallel()
	attr := logger.Channels([]string{"orders", "alerts"})
	require.Equal(t, "channels", attr.Key)
	assert.Equal(t, []string{"orders", "alerts"}, attr.Value.Any())

	empty := logger.Channels(nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestAddr(t *testing.T) {
	t.Parallel()
	attr := logger.Addr("localhost:6379")
	require.Equal(t, "addr", attr.Key)
	assert.Equal(t, "localhost:6379", attr.Value.String())
}

// ============================================================================
// Generic Metadata Tests
// ============================================================================

func TestComponent(t *testing.T) {
	t.Parallel()
	attr := logger.Component("tracker")
	require.Equal(t, "component", attr.Key)
	assert.Equal(t, "tracker", attr.Value.String())
}

func TestEvent(t *testing.T) {
	t.Parallel()
	attr := logger.Event("subscribe")
	require.Equal(t, "event", attr.Key)
	assert.Equal(t, "subscribe", attr.Value.String())
}

func TestAction(t *testing.T) {
	t.Parallel()
	attr := logger.Action("unsubscribe_all")
	require.Equal(t, "action", attr.Key)
	assert.Equal(t, "unsubscribe_all", attr.Value.String())
}

func TestResult(t *testing.T) {
	t.Parallel()
	attr := logger.Result("noop")
	require.Equal(t, "result", attr.Key)
	assert.Equal(t, "noop", attr.Value.String())
}

func TestCount(t *testing.T) {
	t.Parallel()
	attr := logger.Count("messages", 3)
	require.Equal(t, "messages", attr.Key)
	assert.Equal(t, int64(3), attr.Value.Int64())
}

func TestKey(t *testing.T) {
	t.Parallel()

	attr := logger.Key("custom", "value")
	require.Equal(t, "custom", attr.Key)
	assert.Equal(t, "value", attr.Value.Any())

	empty := logger.Key("key", nil)
	assert.True(t, empty.Equal(slog.Attr{}))
}

func TestRetryCount(t *testing.T) {
	t.Parallel()
	attr := logger.RetryCount(5)
	require.Equal(t, "retry_count", attr.Key)
	assert.Equal(t, int64(5), attr.Value.Int64())
}
