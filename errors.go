package substore

import (
	"errors"

	"github.com/dmitrymomot/substore/core/buffer"
	"github.com/dmitrymomot/substore/core/tracker"
)

var (
	// ErrInvalidArgument is returned for a missing or malformed argument:
	// an empty channel name or a position below 1.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConnect is returned by Connect when the broker cannot be reached.
	ErrConnect = errors.New("failed to connect to broker")

	// ErrBroker wraps errors returned by the broker connector.
	ErrBroker = errors.New("broker request failed")

	// ErrClosed is returned by operations on a closed client.
	ErrClosed = errors.New("client is closed")
)

// Buffer and settlement errors, re-exported so callers need only this package.
var (
	ErrUnknownChannel     = buffer.ErrUnknownChannel
	ErrEmptyChannel       = buffer.ErrEmptyChannel
	ErrPositionOutOfRange = buffer.ErrPositionOutOfRange
	ErrTimeout            = tracker.ErrTimeout
)

// TimeoutError carries the outstanding acknowledgement counts observed when
// waiting for a previous batch gave up.
type TimeoutError = tracker.TimeoutError
