package substore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/substore/core/broker"
	"github.com/dmitrymomot/substore/core/buffer"
	"github.com/dmitrymomot/substore/core/logger"
	"github.com/dmitrymomot/substore/core/tracker"
	"github.com/dmitrymomot/substore/integration/database/redis"
)

// Client buffers the messages of its subscribed channels.
// It is safe for concurrent use.
type Client struct {
	id  string
	cfg Config

	connector broker.Connector
	owned     io.Closer // redis client dialed by Connect, nil with WithConnector

	buffers *buffer.Store
	tracker *tracker.Tracker
	slot    chan struct{} // one mutating operation at a time

	logger       *slog.Logger
	customLogger bool

	cancel context.CancelFunc
	group  *errgroup.Group
	closed atomic.Bool
}

// Connect creates a client and starts consuming broker events.
//
// Without WithConnector it dials Redis at cfg.Host:cfg.Port and fails with
// ErrConnect when either is missing or the server does not answer.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	c := &Client{
		id:     uuid.NewString(),
		cfg:    cfg,
		slot:   make(chan struct{}, 1),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.Debug && !c.customLogger {
		c.logger = logger.New(logger.WithLevel(slog.LevelDebug), logger.WithOutput(os.Stderr))
	}
	base := c.logger.With(logger.ClientID(c.id))
	c.logger = base.With(logger.Component("client"))

	c.buffers = buffer.New(buffer.WithLogger(base.With(logger.Component("buffer"))))
	c.tracker = tracker.New(tracker.WithLogger(base.With(logger.Component("tracker"))))

	if c.connector == nil {
		if cfg.Host == "" || cfg.Port <= 0 {
			return nil, fmt.Errorf("%w: host and port are required", ErrConnect)
		}

		client, err := redis.Connect(ctx, redis.Config{
			ConnectionURL:  cfg.redisURL(),
			ClientName:     "substore-" + c.id,
			Protocol:       cfg.Protocol,
			RetryAttempts:  cfg.RetryAttempts,
			RetryInterval:  cfg.RetryInterval,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to connect to redis",
				logger.Addr(cfg.addr()),
				logger.Error(err))
			return nil, errors.Join(ErrConnect, err)
		}

		c.owned = client
		c.connector = redis.NewConnector(client,
			redis.WithEventBufferSize(cfg.eventBuffer()),
			redis.WithConnectorLogger(base.With(logger.Component("redis"))),
		)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(c.listen(runCtx))
	g.Go(c.dispatch(runCtx))
	c.cancel = cancel
	c.group = g

	c.logger.InfoContext(ctx, "substore client connected",
		slog.Duration("grace_period", c.cfg.gracePeriod()),
		slog.Duration("settle_timeout", c.cfg.settleTimeout()))

	return c, nil
}

// ID returns the unique identifier of the client.
func (c *Client) ID() string {
	return c.id
}

// Pending returns the subscribe and unsubscribe acknowledgements still
// expected from the broker.
func (c *Client) Pending() (subscribe, unsubscribe int) {
	return c.tracker.Pending()
}

// Stats returns buffer counters.
func (c *Client) Stats() buffer.StoreStats {
	return c.buffers.Stats()
}

// Publish sends message to channel through the client's broker connection.
func (c *Client) Publish(ctx context.Context, channel, message string) error {
	if channel == "" {
		return fmt.Errorf("%w: empty channel name", ErrInvalidArgument)
	}
	if c.closed.Load() {
		return ErrClosed
	}

	if err := c.connector.Publish(ctx, channel, message); err != nil {
		return errors.Join(ErrBroker, err)
	}
	return nil
}

// Healthcheck pings the broker when the connector supports it.
func (c *Client) Healthcheck(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	p, ok := c.connector.(broker.Pinger)
	if !ok {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return errors.Join(ErrBroker, err)
	}
	return nil
}

// Close stops event processing and releases the broker connection.
// Buffered messages are dropped. Close is safe to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.cancel()
	err := c.connector.Close()
	if gerr := c.group.Wait(); gerr != nil {
		err = errors.Join(err, gerr)
	}
	if c.owned != nil {
		err = errors.Join(err, c.owned.Close())
	}

	c.buffers.RemoveAll()
	c.tracker.Reset()

	c.logger.Info("substore client closed")
	return err
}

func (c *Client) listen(ctx context.Context) func() error {
	return func() error {
		if err := c.connector.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.logger.ErrorContext(ctx, "broker listener stopped", logger.Error(err))
			return err
		}
		return nil
	}
}

// dispatch applies broker events in arrival order.
func (c *Client) dispatch(ctx context.Context) func() error {
	return func() error {
		events := c.connector.Events()
		for {
			select {
			case <-ctx.Done():
				return nil
			case evt, ok := <-events:
				if !ok {
					return nil
				}
				c.apply(ctx, evt)
			}
		}
	}
}

func (c *Client) apply(ctx context.Context, evt broker.Event) {
	switch evt.Kind {
	case broker.EventMessage:
		c.buffers.Append(evt.Channel, evt.Payload)
	case broker.EventSubscribe:
		c.tracker.SubscribeAcked()
	case broker.EventUnsubscribe:
		c.tracker.UnsubscribeAcked()
	case broker.EventError:
		dropped := c.buffers.RemoveAll()
		c.tracker.Reset()
		c.logger.ErrorContext(ctx, "broker error, all subscriptions dropped",
			logger.Error(evt.Err),
			logger.Count("dropped_channels", dropped))
	default:
		c.logger.WarnContext(ctx, "unknown broker event", logger.Event(evt.Kind.String()))
	}
}

// acquire takes the operation slot. The returned func releases it.
func (c *Client) acquire(ctx context.Context) (func(), error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	select {
	case c.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if c.closed.Load() {
		<-c.slot
		return nil, ErrClosed
	}
	return func() { <-c.slot }, nil
}

// settle waits for the acknowledgements of the previous batch.
func (c *Client) settle(ctx context.Context) error {
	if err := c.tracker.AwaitSettled(ctx, c.cfg.settleTimeout()); err != nil {
		c.logger.WarnContext(ctx, "previous batch not acknowledged", logger.Error(err))
		return err
	}
	if c.closed.Load() {
		return ErrClosed
	}
	return nil
}
