// Package logging provides the service-wide slog logger, a rotating file sink
// and the HTTP access log middleware.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// LoggingService owns the process logger and the file sink behind it.
type LoggingService struct {
	Logger *slog.Logger
	sink   *RotatingLogger
}

// DefaultLoggingService is set by InitLogger. Package-level helpers fall back
// to stderr when it is nil so packages can log before main finishes wiring.
var DefaultLoggingService *LoggingService

// Options controls where and how much the service logs.
type Options struct {
	Dir            string
	Level          string
	RetentionWeeks int
	MaxFileSize    int64
	ConsoleOnly    bool
}

// InitLogger builds the global logger and installs it as the slog default.
func InitLogger(opts Options) {
	svc := &LoggingService{}
	svc.Logger, svc.sink = newLogger(opts)
	DefaultLoggingService = svc
	slog.SetDefault(svc.Logger)
}

// Close flushes and closes the file sink, if any.
func Close() error {
	if DefaultLoggingService == nil || DefaultLoggingService.sink == nil {
		return nil
	}
	return DefaultLoggingService.sink.Close()
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logger() *slog.Logger {
	if DefaultLoggingService != nil && DefaultLoggingService.Logger != nil {
		return DefaultLoggingService.Logger
	}
	return fallback
}

var fallback = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

func Info(msg string, args ...any) {
	logger().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	logger().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	logger().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	logger().Debug(msg, args...)
}

// Logger returns the process logger, or the stderr fallback before InitLogger.
func Logger() *slog.Logger {
	return logger()
}
