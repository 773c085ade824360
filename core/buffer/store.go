package buffer

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// Capacity is the number of messages retained per channel.
const Capacity = 20

// Store keeps the most recent messages of every subscribed channel.
// A channel is known to the store from Ensure until Remove or RemoveAll.
//
// Store is safe for concurrent use. Appends for channels that are not
// (or no longer) known are dropped silently: a message may legitimately
// arrive for a channel that was just unsubscribed.
type Store struct {
	mu       sync.RWMutex
	channels map[string][]string
	logger   *slog.Logger

	appended atomic.Int64
	evicted  atomic.Int64
	dropped  atomic.Int64
}

// StoreStats provides counters for monitoring and debugging.
type StoreStats struct {
	Channels int   // Channels currently buffered
	Appended int64 // Messages appended since creation
	Evicted  int64 // Messages evicted because a buffer was full
	Dropped  int64 // Messages dropped because their channel was unknown
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for buffer events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		channels: make(map[string][]string),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ensure creates an empty buffer for name if there is none.
// Reports whether the buffer was created by this call.
func (s *Store) Ensure(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.channels[name]; ok {
		return false
	}
	s.channels[name] = make([]string, 0, Capacity)
	return true
}

// Has reports whether name has a buffer.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.channels[name]
	return ok
}

// Remove deletes the buffer of name, if any.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.channels, name)
}

// RemoveAll deletes every buffer and returns how many were removed.
func (s *Store) RemoveAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.channels)
	clear(s.channels)
	return n
}

// Append adds msg to the buffer of name, evicting the oldest message when
// the buffer is full. Returns false if name has no buffer.
func (s *Store) Append(name, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf, ok := s.channels[name]
	if !ok {
		s.dropped.Add(1)
		s.logger.Debug("message dropped for unknown channel", slog.String("channel", name))
		return false
	}

	if len(buf) == Capacity {
		// Shift in place so the backing array never grows past Capacity.
		copy(buf, buf[1:])
		buf = buf[:Capacity-1]
		s.evicted.Add(1)
	}
	s.channels[name] = append(buf, msg)
	s.appended.Add(1)
	return true
}

// Count returns the number of buffered messages of name.
func (s *Store) Count(name string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf, ok := s.channels[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
	}
	return len(buf), nil
}

// Latest returns the most recently appended message of name.
func (s *Store) Latest(name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	return buf[len(buf)-1], nil
}

// At returns the message at the 1-based position counted from the oldest
// retained message of name.
func (s *Store) At(name string, position int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	buf, err := s.lookup(name)
	if err != nil {
		return "", err
	}
	if position < 1 || position > len(buf) {
		return "", fmt.Errorf("%w: position %d, current length %d", ErrPositionOutOfRange, position, len(buf))
	}
	return buf[position-1], nil
}

// Channels returns the names of all buffered channels in sorted order.
func (s *Store) Channels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.channels))
	for name := range s.channels {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of buffered channels.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.channels)
}

// Snapshot returns a copy of every buffer keyed by channel name.
func (s *Store) Snapshot() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]string, len(s.channels))
	for name, buf := range s.channels {
		out[name] = slices.Clone(buf)
	}
	return out
}

// Stats returns current store counters.
func (s *Store) Stats() StoreStats {
	return StoreStats{
		Channels: s.Len(),
		Appended: s.appended.Load(),
		Evicted:  s.evicted.Load(),
		Dropped:  s.dropped.Load(),
	}
}

// lookup must be called with s.mu held.
func (s *Store) lookup(name string) ([]string, error) {
	buf, ok := s.channels[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChannel, name)
	}
	if len(buf) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyChannel, name)
	}
	return buf, nil
}
