package broker

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
)

// DefaultEventBufferSize is the default capacity of a connector's event stream.
const DefaultEventBufferSize = 256

// Memory is an in-process Connector that behaves like a single Redis
// pub/sub connection: acknowledgements are queued per channel with the
// running subscription count, and messages published on a subscribed channel
// are delivered back on the same stream.
//
// Memory is safe for concurrent use. Event delivery blocks while the stream
// is full, so a consumer must keep draining Events.
type Memory struct {
	mu         sync.Mutex
	subscribed map[string]struct{}
	events     chan Event
	done       chan struct{}
	closed     bool
	logger     *slog.Logger
}

// MemoryOption configures a Memory connector.
type MemoryOption func(*Memory)

// WithBufferSize sets the capacity of the event stream.
func WithBufferSize(size int) MemoryOption {
	return func(m *Memory) {
		if size > 0 {
			m.events = make(chan Event, size)
		}
	}
}

// WithMemoryLogger sets the logger for connector operations.
func WithMemoryLogger(logger *slog.Logger) MemoryOption {
	return func(m *Memory) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMemory creates an in-process connector.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		subscribed: make(map[string]struct{}),
		events:     make(chan Event, DefaultEventBufferSize),
		done:       make(chan struct{}),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Subscribe implements Connector.
func (m *Memory) Subscribe(ctx context.Context, channels ...string) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrConnectorClosed
	}

	for _, ch := range channels {
		m.subscribed[ch] = struct{}{}
		if err := m.emit(ctx, Subscribed(ch, len(m.subscribed))); err != nil {
			return err
		}
	}

	m.logger.DebugContext(ctx, "memory broker subscribed", slog.Any("channels", channels))
	return nil
}

// UnsubscribeAll implements Connector.
// Without subscriptions a single acknowledgement with an empty channel is
// queued, as Redis does.
func (m *Memory) UnsubscribeAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrConnectorClosed
	}

	if len(m.subscribed) == 0 {
		return m.emit(ctx, Unsubscribed("", 0))
	}

	channels := make([]string, 0, len(m.subscribed))
	for ch := range m.subscribed {
		channels = append(channels, ch)
	}
	slices.Sort(channels)

	for _, ch := range channels {
		delete(m.subscribed, ch)
		if err := m.emit(ctx, Unsubscribed(ch, len(m.subscribed))); err != nil {
			return err
		}
	}

	m.logger.DebugContext(ctx, "memory broker unsubscribed", slog.Any("channels", channels))
	return nil
}

// Publish implements Connector.
// The message is delivered only if the connection is subscribed to channel.
func (m *Memory) Publish(ctx context.Context, channel, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrConnectorClosed
	}

	if _, ok := m.subscribed[channel]; !ok {
		return nil
	}
	return m.emit(ctx, Message(channel, message))
}

// Fail simulates a connection-level failure: an EventError is queued and
// every subscription of the connection is dropped.
func (m *Memory) Fail(ctx context.Context, err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrConnectorClosed
	}

	clear(m.subscribed)
	return m.emit(ctx, Failure(err))
}

// Subscriptions returns the channels the connection is subscribed to, sorted.
func (m *Memory) Subscriptions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	channels := make([]string, 0, len(m.subscribed))
	for ch := range m.subscribed {
		channels = append(channels, ch)
	}
	slices.Sort(channels)
	return channels
}

// Events implements Connector.
func (m *Memory) Events() <-chan Event {
	return m.events
}

// Listen implements Connector. Memory pushes events as requests are made,
// so Listen only blocks until ctx is done or the connector is closed.
func (m *Memory) Listen(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-m.done:
	}
	return nil
}

// Ping implements Pinger.
func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrConnectorClosed
	}
	return nil
}

// Close implements Connector.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)
	close(m.events)
	return nil
}

// emit must be called with m.mu held.
func (m *Memory) emit(ctx context.Context, evt Event) error {
	select {
	case m.events <- evt:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
