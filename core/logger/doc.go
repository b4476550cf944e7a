// Package logger provides structured logging utilities built on Go's standard slog package.
//
// New builds a *slog.Logger from functional options, with presets for
// development, staging and production. The attribute helpers give common
// fields stable keys and return an empty slog.Attr for nil or empty input,
// so they can be passed unconditionally.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithProduction("dispatch"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("subscription added",
//		logger.Component("dispatch"),
//		logger.Channel("alerts"),
//	)
//
//	log.Warn("subscription error", logger.Channel("alerts"), logger.Error(err))
//
// # Environment Configurations
//
//	// Development: text format, debug level, source locations
//	devLogger := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level
//	prodLogger := logger.New(logger.WithProduction("myapp"))
//
//	// Picked by name, e.g. from APP_ENV
//	log := logger.New(logger.WithEnvironment(cfg.Env, "myapp"), logger.WithLevelName(cfg.LogLevel))
//
// Nop returns a logger that discards all output; components default to it.
package logger
