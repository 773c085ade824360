package substore

import (
	"context"
	"fmt"
	"time"
)

// SubscribedChannels returns a copy of every buffer, keyed by channel,
// oldest message first. It does not wait.
func (c *Client) SubscribedChannels() map[string][]string {
	return c.buffers.Snapshot()
}

// MessageCount returns the number of buffered messages of channel
// after the grace period.
func (c *Client) MessageCount(ctx context.Context, channel string) (int, error) {
	if err := c.grace(ctx); err != nil {
		return 0, err
	}
	return c.buffers.Count(channel)
}

// LatestMessage returns the most recent buffered message of channel
// after the grace period.
func (c *Client) LatestMessage(ctx context.Context, channel string) (string, error) {
	if err := c.grace(ctx); err != nil {
		return "", err
	}
	return c.buffers.Latest(channel)
}

// MessageAt returns the buffered message of channel at position, counted
// from 1 for the oldest retained message, after the grace period.
func (c *Client) MessageAt(ctx context.Context, position int, channel string) (string, error) {
	if position < 1 {
		return "", fmt.Errorf("%w: position %d, must be at least 1", ErrInvalidArgument, position)
	}
	if err := c.grace(ctx); err != nil {
		return "", err
	}
	return c.buffers.At(channel, position)
}

func (c *Client) grace(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	timer := time.NewTimer(c.cfg.gracePeriod())
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
