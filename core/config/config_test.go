package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/substore/core/config"
)

type brokerConfig struct {
	Host     string        `env:"CONFIG_TEST_HOST" envDefault:"localhost"`
	Port     int           `env:"CONFIG_TEST_PORT" envDefault:"6379"`
	Grace    time.Duration `env:"CONFIG_TEST_GRACE" envDefault:"700ms"`
	Channels []string      `env:"CONFIG_TEST_CHANNELS" envSeparator:","`
}

type requiredConfig struct {
	Secret string `env:"CONFIG_TEST_REQUIRED_SECRET,required"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED" envDefault:"default"`
}

func TestLoad(t *testing.T) {
	t.Setenv("CONFIG_TEST_PORT", "6380")
	t.Setenv("CONFIG_TEST_CHANNELS", "orders,alerts")

	var cfg brokerConfig
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 6380, cfg.Port)
	assert.Equal(t, 700*time.Millisecond, cfg.Grace)
	assert.Equal(t, []string{"orders", "alerts"}, cfg.Channels)
}

func TestLoad_MissingRequired(t *testing.T) {
	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	assert.Panics(t, func() {
		config.MustLoad(&cfg)
	})
}

func TestLoad_Cached(t *testing.T) {
	t.Setenv("CONFIG_TEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))
	assert.Equal(t, "first", first.Value)

	t.Setenv("CONFIG_TEST_CACHED", "second")

	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value, "type is parsed only once")
}
