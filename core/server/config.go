package server

import "time"

// Config holds probe server settings.
type Config struct {
	Addr            string        `env:"PROBE_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"PROBE_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"PROBE_WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"PROBE_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// NewFromConfig creates a Server from cfg. Options are applied after the
// config values and may override them.
func NewFromConfig(cfg Config, opts ...Option) (*Server, error) {
	if cfg.Addr == "" {
		return nil, ErrMissingAddress
	}

	var configOpts []Option
	if cfg.ReadTimeout > 0 {
		configOpts = append(configOpts, WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.WriteTimeout > 0 {
		configOpts = append(configOpts, WithWriteTimeout(cfg.WriteTimeout))
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}

	return New(cfg.Addr, append(configOpts, opts...)...), nil
}
