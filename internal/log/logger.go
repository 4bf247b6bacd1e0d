package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger provides an interface into the underlying logging system for playstate's purposes.  Components that
// react to playback events take a *Logger explicitly rather than reaching for the package default.
type Logger struct {
	logger       *slog.Logger
	file         *os.File
	traceEnabled bool
}

// Config contains logging information used to set up the logging framework
type Config struct {
	// Log Level.  One of: trace, debug, info, warn, error
	Level string
	// Path to the file to log into
	FilePath string
}

// New creates a logger that writes JSON lines to the configured file, creating its directory if needed.
func New(config Config) (*Logger, error) {
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, err
	}

	logger := NewWriter(file, config.Level)
	logger.file = file
	return logger, nil
}

// NewWriter creates a logger writing JSON lines to w.  The caller owns w.
func NewWriter(w io.Writer, level string) *Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(level),
	}

	return &Logger{
		logger:       slog.New(slog.NewJSONHandler(w, opts)),
		traceEnabled: strings.EqualFold(level, "trace"),
	}
}

// Discard returns a logger that drops everything.  Handy for tests and for components constructed without one.
func Discard() *Logger {
	return &Logger{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// With returns a logger that adds the given attributes to every record.  The derived logger shares the parent's
// output and must not be closed.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		logger:       l.logger.With(args...),
		traceEnabled: l.traceEnabled,
	}
}

// Close the log file.  No-op for loggers that don't own a file.
func (l *Logger) Close() {
	if l.file == nil {
		return
	}
	err := l.file.Close()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error closing logger: %v\n", err)
	}
}

// Trace logs at debug level, but only if trace logging is enabled.
func (l *Logger) Trace(msg string, args ...any) {
	if l.traceEnabled {
		l.logger.Debug("TRACE: "+msg, args...)
	}
}

// Debug logs a message a debug Level
func (l *Logger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

// Info logs a message at info Level
func (l *Logger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

// Warn logs a message at warn Level
func (l *Logger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

// Error logs a message at error Level.
func (l *Logger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

// parseLogLevel is a helper to convert a string log Level into the slog version.  Defaults to info if a matching log
// Level cannot be found.
func parseLogLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "trace":
		return slog.LevelDebug // Trace level is handled by this log package instead of slog
	default:
		return slog.LevelInfo
	}
}
