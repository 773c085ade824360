package main

import (
	"time"

	"github.com/dmitrymomot/substore"
	"github.com/dmitrymomot/substore/core/server"
)

// Config is loaded from the environment and an optional .env file.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"substore"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Channels       []string      `env:"SUBSTORE_CHANNELS,required" envSeparator:","`
	ReportInterval time.Duration `env:"SUBSTORE_REPORT_INTERVAL" envDefault:"10s"`
	Broker         string        `env:"SUBSTORE_BROKER" envDefault:"redis"` // redis or memory

	Substore substore.Config
	Probe    server.Config
}
