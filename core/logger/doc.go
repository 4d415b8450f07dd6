// Package logger provides structured logging utilities built on Go's standard
// slog package: a factory with environment-specific configurations and a set
// of pre-built attribute helpers for common logging scenarios.
//
// Create loggers using the factory function with configuration options:
//
//	import "github.com/pixeltool/presenced/core/logger"
//
//	// Development: text format, debug level
//	log := logger.New(logger.WithDevelopment("presenced"))
//
//	// Production: JSON format, info level
//	log := logger.New(logger.WithProduction("presenced"))
//
//	log.Info("server starting",
//		logger.Component("server"),
//		logger.Event("startup"),
//	)
//
// Attribute helpers follow the empty-Attr pattern: helpers like Error and
// RequestID return an empty slog.Attr for nil or empty input, so call sites
// never need explicit nil checks.
package logger
