package substore

import (
	"net"
	"net/url"
	"strconv"
	"time"
)

// Default values applied by Connect for zero Config fields.
const (
	DefaultGracePeriod   = 700 * time.Millisecond
	DefaultSettleTimeout = 10 * time.Second
	DefaultEventBuffer   = 256
)

// Config holds client settings.
type Config struct {
	Host     string `env:"SUBSTORE_HOST"`
	Port     int    `env:"SUBSTORE_PORT"`
	Password string `env:"SUBSTORE_PASSWORD"`
	DB       int    `env:"SUBSTORE_DB" envDefault:"0"`
	// Protocol is the RESP version used with Redis, 2 or 3. Zero picks the library default.
	Protocol int `env:"SUBSTORE_PROTOCOL" envDefault:"0"`

	// GracePeriod is waited before every read. Values of 1ms or less keep the default.
	GracePeriod time.Duration `env:"SUBSTORE_GRACE_PERIOD" envDefault:"700ms"`
	// SettleTimeout bounds the wait for the previous batch's acknowledgements.
	SettleTimeout time.Duration `env:"SUBSTORE_SETTLE_TIMEOUT" envDefault:"10s"`
	// EventBuffer is the capacity of the connector's event stream.
	EventBuffer int  `env:"SUBSTORE_EVENT_BUFFER" envDefault:"256"`
	Debug       bool `env:"SUBSTORE_DEBUG" envDefault:"false"`

	RetryAttempts  int           `env:"SUBSTORE_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"SUBSTORE_RETRY_INTERVAL" envDefault:"1s"`
	ConnectTimeout time.Duration `env:"SUBSTORE_CONNECT_TIMEOUT" envDefault:"10s"`
}

func (c Config) gracePeriod() time.Duration {
	if c.GracePeriod > time.Millisecond {
		return c.GracePeriod
	}
	return DefaultGracePeriod
}

func (c Config) settleTimeout() time.Duration {
	if c.SettleTimeout > 0 {
		return c.SettleTimeout
	}
	return DefaultSettleTimeout
}

func (c Config) eventBuffer() int {
	if c.EventBuffer > 0 {
		return c.EventBuffer
	}
	return DefaultEventBuffer
}

// addr returns host:port.
func (c Config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// redisURL builds a redis:// connection URL from the config.
func (c Config) redisURL() string {
	u := url.URL{
		Scheme: "redis",
		Host:   c.addr(),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	if c.Password != "" {
		u.User = url.UserPassword("", c.Password)
	}
	return u.String()
}
