// Package broker defines the boundary between substore and a publish/subscribe
// broker: a Connector issues subscribe, unsubscribe and publish requests and
// delivers everything the broker sends back as one ordered Event stream.
//
// Acknowledgements are not returned by Subscribe or UnsubscribeAll. They arrive
// later on Events, one per channel, exactly like Redis replies to SUBSCRIBE.
//
// Memory is an in-process Connector with Redis semantics. The Redis
// implementation lives in integration/database/redis.
package broker

import "context"

// Connector is a single broker connection.
type Connector interface {
	// Subscribe requests a subscription to every channel in one batch.
	// One EventSubscribe per channel follows on Events.
	Subscribe(ctx context.Context, channels ...string) error

	// UnsubscribeAll drops every subscription of the connection.
	// One EventUnsubscribe per dropped channel follows on Events.
	UnsubscribeAll(ctx context.Context) error

	// Publish sends message to channel.
	Publish(ctx context.Context, channel, message string) error

	// Events returns the inbound stream. Implementations may close it on
	// Close, so consumers must also stop on their own context.
	Events() <-chan Event

	// Listen pumps broker replies into Events until ctx is done or the
	// connector is closed. It returns nil on a normal stop.
	Listen(ctx context.Context) error

	// Close releases the connection. It is safe to call more than once.
	Close() error
}

// Pinger is implemented by connectors that can check broker liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}
