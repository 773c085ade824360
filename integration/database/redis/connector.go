package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/substore/core/broker"
)

const (
	defaultReceiveTimeout = time.Second
	defaultRetryBackoff   = 100 * time.Millisecond
	maxRetryBackoff       = 5 * time.Second
)

// Connector implements broker.Connector on top of a go-redis PubSub.
//
// Listen translates every reply of the pub/sub connection into a
// broker.Event. After a receive error the connector drops its PubSub (and
// with it every server-side subscription), starts over with a fresh one and
// then emits broker.EventError, so the broker side matches the client's hard
// reset.
type Connector struct {
	client redis.UniversalClient

	mu     sync.Mutex
	ps     *redis.PubSub
	closed bool

	events chan broker.Event
	done   chan struct{}

	receiveTimeout time.Duration
	retryBackoff   time.Duration
	logger         *slog.Logger
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithEventBufferSize sets the capacity of the event stream.
func WithEventBufferSize(size int) ConnectorOption {
	return func(c *Connector) {
		if size > 0 {
			c.events = make(chan broker.Event, size)
		}
	}
}

// WithReceiveTimeout bounds each blocking read so Listen notices
// cancellation. Default is one second.
func WithReceiveTimeout(d time.Duration) ConnectorOption {
	return func(c *Connector) {
		if d > 0 {
			c.receiveTimeout = d
		}
	}
}

// WithRetryBackoff sets the initial pause after a receive error.
// The pause doubles on consecutive errors up to five seconds.
func WithRetryBackoff(d time.Duration) ConnectorOption {
	return func(c *Connector) {
		if d > 0 {
			c.retryBackoff = d
		}
	}
}

// WithConnectorLogger configures structured logging for the connector.
func WithConnectorLogger(logger *slog.Logger) ConnectorOption {
	return func(c *Connector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConnector creates a connector using client for publishing and for its
// pub/sub connection. The caller keeps ownership of client.
func NewConnector(client redis.UniversalClient, opts ...ConnectorOption) *Connector {
	c := &Connector{
		client:         client,
		ps:             client.Subscribe(context.Background()),
		events:         make(chan broker.Event, broker.DefaultEventBufferSize),
		done:           make(chan struct{}),
		receiveTimeout: defaultReceiveTimeout,
		retryBackoff:   defaultRetryBackoff,
		logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Subscribe implements broker.Connector.
func (c *Connector) Subscribe(ctx context.Context, channels ...string) error {
	if len(channels) == 0 {
		return broker.ErrNoChannels
	}

	ps, err := c.pubsub()
	if err != nil {
		return err
	}
	return ps.Subscribe(ctx, channels...)
}

// UnsubscribeAll implements broker.Connector.
func (c *Connector) UnsubscribeAll(ctx context.Context) error {
	ps, err := c.pubsub()
	if err != nil {
		return err
	}
	return ps.Unsubscribe(ctx)
}

// Publish implements broker.Connector.
func (c *Connector) Publish(ctx context.Context, channel, message string) error {
	if c.isClosed() {
		return ErrConnectorClosed
	}
	return c.client.Publish(ctx, channel, message).Err()
}

// Events implements broker.Connector.
func (c *Connector) Events() <-chan broker.Event {
	return c.events
}

// Ping implements broker.Pinger.
func (c *Connector) Ping(ctx context.Context) error {
	if c.isClosed() {
		return ErrConnectorClosed
	}
	return Healthcheck(c.client)(ctx)
}

// Listen implements broker.Connector.
func (c *Connector) Listen(ctx context.Context) error {
	backoff := c.retryBackoff

	for {
		if ctx.Err() != nil || c.isClosed() {
			return nil
		}

		ps, err := c.pubsub()
		if err != nil {
			return nil
		}

		msg, err := ps.ReceiveTimeout(ctx, c.receiveTimeout)
		if err != nil {
			if ctx.Err() != nil || c.isClosed() {
				return nil
			}
			if isTimeout(err) {
				continue
			}
			if errors.Is(err, redis.ErrClosed) && !c.isCurrent(ps) {
				// Replaced after an earlier failure.
				continue
			}

			c.logger.ErrorContext(ctx, "redis pub/sub receive failed",
				slog.String("error", err.Error()),
				slog.Duration("backoff", backoff))

			// Renew before reporting: a write that reached the failed PubSub
			// precedes the Failure event, and one that comes later either
			// goes to the fresh PubSub or fails with redis.ErrClosed.
			c.renew(ps)
			if !c.send(ctx, broker.Failure(err)) {
				return nil
			}

			select {
			case <-ctx.Done():
				return nil
			case <-c.done:
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxRetryBackoff)
			continue
		}

		backoff = c.retryBackoff

		evt, ok := toEvent(msg)
		if !ok {
			continue
		}
		if !c.send(ctx, evt) {
			return nil
		}
	}
}

// Close implements broker.Connector. It closes the pub/sub connection but
// not the client passed to NewConnector. The event stream is left open;
// consumers stop on their own context.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.ps.Close()
}

func (c *Connector) pubsub() (*redis.PubSub, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrConnectorClosed
	}
	return c.ps, nil
}

func (c *Connector) isCurrent(ps *redis.PubSub) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ps == ps
}

func (c *Connector) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// renew swaps failed for a fresh PubSub without subscriptions.
func (c *Connector) renew(failed *redis.PubSub) {
	c.mu.Lock()
	if c.closed || c.ps != failed {
		c.mu.Unlock()
		return
	}
	c.ps = c.client.Subscribe(context.Background())
	c.mu.Unlock()

	_ = failed.Close()
}

func (c *Connector) send(ctx context.Context, evt broker.Event) bool {
	select {
	case c.events <- evt:
		return true
	case <-ctx.Done():
		return false
	case <-c.done:
		return false
	}
}

func toEvent(msg any) (broker.Event, bool) {
	switch m := msg.(type) {
	case *redis.Message:
		return broker.Message(m.Channel, m.Payload), true
	case *redis.Subscription:
		switch m.Kind {
		case "subscribe":
			return broker.Subscribed(m.Channel, m.Count), true
		case "unsubscribe":
			return broker.Unsubscribed(m.Channel, m.Count), true
		}
	}
	// Pongs and pattern subscriptions are not used.
	return broker.Event{}, false
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
