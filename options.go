package substore

import (
	"log/slog"

	"github.com/dmitrymomot/substore/core/broker"
)

// Option configures a Client.
type Option func(*Client)

// WithConnector makes the client use connector instead of dialing Redis.
// Host and port are not required then. The client takes ownership of
// connector and closes it on Close.
func WithConnector(connector broker.Connector) Option {
	return func(c *Client) {
		if connector != nil {
			c.connector = connector
		}
	}
}

// WithLogger sets the client logger. Config.Debug has no effect on a logger
// passed here.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
			c.customLogger = true
		}
	}
}
