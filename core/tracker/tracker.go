// Package tracker counts broker acknowledgements that are still expected for
// the last subscribe and unsubscribe batches, and lets callers wait until
// both counts drop to zero.
//
// The counters are set (not incremented) when a batch is issued and are
// decremented by one per acknowledgement, never going below zero. Waiters
// are woken on every change instead of polling.
//
//	t := tracker.New()
//	t.ExpectSubscribe(2)
//	go func() { t.SubscribeAcked(); t.SubscribeAcked() }()
//	if err := t.AwaitSettled(ctx, tracker.DefaultTimeout); err != nil {
//		var te *tracker.TimeoutError
//		if errors.As(err, &te) {
//			log.Printf("still waiting for %d subscribe acks", te.Subscribe)
//		}
//	}
package tracker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultTimeout bounds AwaitSettled when callers have no better value.
const DefaultTimeout = 10 * time.Second

// Tracker holds the outstanding subscribe and unsubscribe acknowledgement counts.
type Tracker struct {
	mu          sync.Mutex
	subscribe   int
	unsubscribe int
	changed     chan struct{} // closed and replaced on every counter change
	logger      *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger for counter changes.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// New creates a tracker with both counters at zero.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		changed: make(chan struct{}),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// ExpectSubscribe sets the number of subscribe acknowledgements expected
// from the batch just issued.
func (t *Tracker) ExpectSubscribe(n int) {
	t.update(func() {
		t.subscribe = max(n, 0)
	})
	t.logger.Debug("expecting subscribe events", slog.Int("outstanding_subscribe", max(n, 0)))
}

// ExpectUnsubscribe sets the number of unsubscribe acknowledgements expected
// from the batch just issued.
func (t *Tracker) ExpectUnsubscribe(n int) {
	t.update(func() {
		t.unsubscribe = max(n, 0)
	})
	t.logger.Debug("expecting unsubscribe events", slog.Int("outstanding_unsubscribe", max(n, 0)))
}

// SubscribeAcked records one subscribe acknowledgement.
func (t *Tracker) SubscribeAcked() {
	var left int
	t.update(func() {
		if t.subscribe > 0 {
			t.subscribe--
		}
		left = t.subscribe
	})
	t.logger.Debug("subscribe event received", slog.Int("outstanding_subscribe", left))
}

// UnsubscribeAcked records one unsubscribe acknowledgement.
func (t *Tracker) UnsubscribeAcked() {
	var left int
	t.update(func() {
		if t.unsubscribe > 0 {
			t.unsubscribe--
		}
		left = t.unsubscribe
	})
	t.logger.Debug("unsubscribe event received", slog.Int("outstanding_unsubscribe", left))
}

// Reset zeroes both counters, releasing every waiter.
func (t *Tracker) Reset() {
	t.update(func() {
		t.subscribe = 0
		t.unsubscribe = 0
	})
	t.logger.Debug("outstanding events reset")
}

// Pending returns the current counters.
func (t *Tracker) Pending() (subscribe, unsubscribe int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.subscribe, t.unsubscribe
}

// Settled reports whether no acknowledgements are outstanding.
func (t *Tracker) Settled() bool {
	sub, unsub := t.Pending()
	return sub == 0 && unsub == 0
}

// AwaitSettled blocks until both counters are zero.
// It returns a *TimeoutError carrying the last seen counters when timeout
// elapses first, or the context error when ctx is done.
// A non-positive timeout uses DefaultTimeout.
func (t *Tracker) AwaitSettled(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	start := time.Now()
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		t.mu.Lock()
		sub, unsub := t.subscribe, t.unsubscribe
		changed := t.changed
		t.mu.Unlock()

		if sub == 0 && unsub == 0 {
			return nil
		}

		select {
		case <-changed:
		case <-timer.C:
			return &TimeoutError{
				Subscribe:   sub,
				Unsubscribe: unsub,
				Waited:      time.Since(start),
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Tracker) update(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fn()
	close(t.changed)
	t.changed = make(chan struct{})
}
