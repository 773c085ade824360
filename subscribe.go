package substore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dmitrymomot/substore/core/logger"
)

// SubscribeResult describes what a Subscribe call did.
type SubscribeResult struct {
	Requested []string // sent to the broker in one batch
	Skipped   []string // already subscribed, left untouched
}

// AlreadySubscribed reports whether every requested channel was already
// subscribed, so nothing was sent to the broker.
func (r SubscribeResult) AlreadySubscribed() bool {
	return len(r.Requested) == 0
}

// Subscribe subscribes to every channel that has no buffer yet.
//
// It first waits for the acknowledgements of the previous Subscribe or
// UnsubscribeAll call and fails with ErrTimeout when they do not arrive
// within Config.SettleTimeout. Duplicates and channels that are already
// subscribed are skipped. The remaining channels get an empty buffer each
// and are sent to the broker as one batch; Subscribe does not wait for
// their acknowledgements. Calling it without channels only waits for the
// previous batch and reports AlreadySubscribed.
func (c *Client) Subscribe(ctx context.Context, channels ...string) (SubscribeResult, error) {
	if slices.Contains(channels, "") {
		return SubscribeResult{}, fmt.Errorf("%w: empty channel name", ErrInvalidArgument)
	}

	release, err := c.acquire(ctx)
	if err != nil {
		return SubscribeResult{}, err
	}
	defer release()

	if err := c.settle(ctx); err != nil {
		return SubscribeResult{}, err
	}

	var res SubscribeResult
	seen := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		if _, ok := seen[ch]; ok {
			continue
		}
		seen[ch] = struct{}{}

		if c.buffers.Ensure(ch) {
			res.Requested = append(res.Requested, ch)
		} else {
			res.Skipped = append(res.Skipped, ch)
		}
	}

	if res.AlreadySubscribed() {
		c.logger.DebugContext(ctx, "already subscribed", logger.Channels(res.Skipped))
		return res, nil
	}

	c.tracker.ExpectSubscribe(len(res.Requested))
	if err := c.connector.Subscribe(ctx, res.Requested...); err != nil {
		for _, ch := range res.Requested {
			c.buffers.Remove(ch)
		}
		c.tracker.ExpectSubscribe(0)

		c.logger.ErrorContext(ctx, "subscribe failed",
			logger.Channels(res.Requested),
			logger.Error(err))
		return SubscribeResult{Skipped: res.Skipped}, errors.Join(ErrBroker, err)
	}

	c.logger.InfoContext(ctx, "subscribe requested",
		logger.Channels(res.Requested),
		logger.Count("skipped", len(res.Skipped)))
	return res, nil
}

// UnsubscribeAll drops every subscription and returns how many channels
// were unsubscribed.
//
// Like Subscribe it waits for the previous batch first. Buffers are removed
// before the broker is asked, so reads fail with ErrUnknownChannel right
// away; they stay removed when the broker request fails. With nothing
// subscribed it returns 0 without contacting the broker.
func (c *Client) UnsubscribeAll(ctx context.Context) (int, error) {
	release, err := c.acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer release()

	if err := c.settle(ctx); err != nil {
		return 0, err
	}

	channels := c.buffers.Channels()
	if len(channels) == 0 {
		c.logger.DebugContext(ctx, "nothing to unsubscribe")
		return 0, nil
	}

	c.tracker.ExpectUnsubscribe(len(channels))
	c.buffers.RemoveAll()

	if err := c.connector.UnsubscribeAll(ctx); err != nil {
		c.tracker.ExpectUnsubscribe(0)

		c.logger.ErrorContext(ctx, "unsubscribe failed",
			logger.Channels(channels),
			logger.Error(err))
		return 0, errors.Join(ErrBroker, err)
	}

	c.logger.InfoContext(ctx, "unsubscribe requested", logger.Channels(channels))
	return len(channels), nil
}
