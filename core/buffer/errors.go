package buffer

import "errors"

var (
	// ErrUnknownChannel is returned when a channel has no buffer (never subscribed or since unsubscribed).
	ErrUnknownChannel = errors.New("channel has not been subscribed to")

	// ErrEmptyChannel is returned when a channel buffer holds no messages yet.
	ErrEmptyChannel = errors.New("channel does not contain any messages")

	// ErrPositionOutOfRange is returned when a requested position is outside the retained messages.
	ErrPositionOutOfRange = errors.New("position is out of range")
)
