// Package log provides structured logging for the interpreter, state
// database, and CLI harness. It wraps Go's log/slog, letting each
// subsystem nest its own attributes under a named group instead of
// tagging every line with a flat field.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with subsystem-scoped context.
type Logger struct {
	inner *slog.Logger
}

// defaultLogger is the process-wide logger used by the package-level
// convenience functions. octane is a one-shot CLI rather than a long-running
// node, so its default handler favors a human-readable line over JSON; set
// OCTANE_LOG_FORMAT=json to switch, or OCTANE_LOG_LEVEL to raise or lower
// the threshold (debug, info, warn, error).
var defaultLogger *Logger

func init() {
	defaultLogger = New(levelFromEnv(), handlerFromEnv())
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("OCTANE_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func handlerFromEnv() func(level slog.Level) slog.Handler {
	if strings.ToLower(os.Getenv("OCTANE_LOG_FORMAT")) == "json" {
		return jsonHandler
	}
	return textHandler
}

func jsonHandler(level slog.Level) slog.Handler {
	return slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}

func textHandler(level slog.Level) slog.Handler {
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}

// New creates a Logger at the given level, using build to construct its
// handler. The default logger is built this way with the handler resolved
// for the process (text by default, JSON under OCTANE_LOG_FORMAT).
func New(level slog.Level, build func(slog.Level) slog.Handler) *Logger {
	return &Logger{inner: slog.New(build(level))}
}

// NewWithHandler creates a Logger backed by the supplied slog.Handler, so a
// caller can capture or inspect log output directly.
func NewWithHandler(h slog.Handler) *Logger {
	return &Logger{inner: slog.New(h)}
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger whose subsequent attributes are nested
// under name rather than tagged inline, e.g. vm.depth instead of a flat
// module=vm, depth=N pair. This is how the interpreter and state database
// each get their own contextual logger.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.WithGroup(name)}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

// Debug logs at LevelDebug.
func (l *Logger) Debug(msg string, args ...any) { l.inner.Debug(msg, args...) }

// Info logs at LevelInfo.
func (l *Logger) Info(msg string, args ...any) { l.inner.Info(msg, args...) }

// Warn logs at LevelWarn.
func (l *Logger) Warn(msg string, args ...any) { l.inner.Warn(msg, args...) }

// Error logs at LevelError.
func (l *Logger) Error(msg string, args ...any) { l.inner.Error(msg, args...) }

// Debug logs at LevelDebug using the default logger.
func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

// Info logs at LevelInfo using the default logger.
func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

// Warn logs at LevelWarn using the default logger.
func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

// Error logs at LevelError using the default logger.
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
