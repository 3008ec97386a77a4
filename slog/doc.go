// Package slog decorates georender services with structured logging.
// Successful calls log at debug level and failures at error level.
package slog
