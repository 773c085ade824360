// Package substore keeps a bounded, in-memory history of the messages
// published on a set of pub/sub channels and serves reads from it.
//
// A Client owns one broker connection. Subscribing creates an empty buffer
// per channel; every message the broker delivers is appended to its channel's
// buffer, which keeps the 20 most recent messages and drops the oldest on
// overflow. Reads wait a short grace period first, so a message published
// just before the read has a chance to arrive.
//
// Subscribe and UnsubscribeAll are serialized: each waits until the broker
// has acknowledged every channel of the previous batch, or until the settle
// timeout elapses, before issuing its own batch.
//
//	client, err := substore.Connect(ctx, substore.Config{Host: "localhost", Port: 6379})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	if _, err := client.Subscribe(ctx, "orders", "alerts"); err != nil {
//		return err
//	}
//
//	n, err := client.MessageCount(ctx, "orders")
//	last, err := client.LatestMessage(ctx, "orders")
//	first, err := client.MessageAt(ctx, 1, "orders")
//
// A broker error drops every buffer and every outstanding acknowledgement;
// channels must be subscribed again.
//
// Errors can be checked with errors.Is against ErrInvalidArgument, ErrConnect,
// ErrUnknownChannel, ErrEmptyChannel, ErrPositionOutOfRange, ErrTimeout,
// ErrBroker and ErrClosed.
package substore
