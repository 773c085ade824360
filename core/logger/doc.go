// Package logger builds structured loggers on top of log/slog and provides
// attribute helpers so that log lines across substore use the same keys.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithDevelopment("substore"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("subscribed",
//		logger.Component("client"),
//		logger.Channels([]string{"orders", "alerts"}),
//	)
//
// # Environments
//
//	logger.New(logger.WithDevelopment("substore")) // text, debug
//	logger.New(logger.WithStaging("substore"))     // JSON, info
//	logger.New(logger.WithProduction("substore"))  // JSON, info
//	logger.New(logger.WithEnvironment(os.Getenv("APP_ENV"), "substore"))
//
// Options are applied in order, so a WithLevel or WithLevelName placed after
// an environment option overrides its level.
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, which slog omits:
//
//	log.Error("unsubscribe failed", logger.Error(err), logger.Count("channels", n))
//
// # Testing
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))
//
// Components that accept a logger default to Discard when none is given.
package logger
