// Package observability provides logging and tracing for the storage layer.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// SetLevel replaces the global logger with one at the given level.
func SetLevel(level slog.Level) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
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

// RepoLogger provides structured logging for repository operations.
type RepoLogger struct {
	backend string
	entity  string
	logger  *Logger
}

// NewRepoLogger creates a new RepoLogger for the given backend and entity.
func NewRepoLogger(backend, entity string) *RepoLogger {
	return &RepoLogger{
		backend: backend,
		entity:  entity,
		logger:  GlobalLogger,
	}
}

// LogOperation logs a completed repository operation at debug level.
func (l *RepoLogger) LogOperation(ctx context.Context, operation string, fields map[string]interface{}) {
	attrs := []any{
		slog.String("backend", l.backend),
		slog.String("entity", l.entity),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.DebugContext(ctx, "repository operation", attrs...)
}

// LogError logs a failed repository operation.
func (l *RepoLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "repository error",
		slog.String("backend", l.backend),
		slog.String("entity", l.entity),
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}
