package broker

import "errors"

var (
	// ErrConnectorClosed is returned by operations on a closed connector.
	ErrConnectorClosed = errors.New("broker connector closed")

	// ErrNoChannels is returned when Subscribe is called without channels.
	ErrNoChannels = errors.New("no channels given")
)
