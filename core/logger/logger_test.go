package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/substore/core/logger"
)

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithJSONFormatter(),
		logger.WithOutput(&buf),
		logger.WithAttr(slog.String("service", "substore")),
	)

	log.Info("subscribed", logger.Component("client"), logger.Channel("orders"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"subscribed"`)
	assert.Contains(t, out, `"component":"client"`)
	assert.Contains(t, out, `"channel":"orders"`)
	assert.Contains(t, out, `"service":"substore"`)
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		opts  []logger.Option
		debug bool
	}{
		{"default is info", nil, false},
		{"development is debug", []logger.Option{logger.WithDevelopment("app")}, true},
		{"production is info", []logger.Option{logger.WithProduction("app")}, false},
		{"level after environment wins", []logger.Option{logger.WithProduction("app"), logger.WithLevel(slog.LevelDebug)}, true},
		{"level by name", []logger.Option{logger.WithLevelName("debug")}, true},
		{"unknown level name is ignored", []logger.Option{logger.WithLevelName("loud")}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			opts := append([]logger.Option{logger.WithOutput(&buf)}, tt.opts...)
			log := logger.New(opts...)

			assert.Equal(t, tt.debug, log.Enabled(context.Background(), slog.LevelDebug))
		})
	}
}

func TestWithEnvironment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithEnvironment("production", "substore"), logger.WithOutput(&buf))
	log.Info("hello")

	assert.Contains(t, buf.String(), `"env":"production"`)
	assert.Contains(t, buf.String(), `"app":"substore"`)
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	log := logger.Discard()
	assert.NotPanics(t, func() {
		log.Error("dropped", logger.Error(nil))
	})
}
