// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package logging provides structured, component-scoped logging for tfdocs.
//
// The scanner and extractor emit debug traces per locate/extract/scan call
// and a warning whenever multi-match disambiguation is applied, so the
// least-indented-wins heuristic stays observable.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level controls the minimum severity that is emitted.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Config controls logger construction.
type Config struct {
	Level  Level
	Output io.Writer
	JSON   bool
}

// DefaultConfig returns a text logger at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Logger is a leveled, key-value logger scoped to a component.
type Logger struct {
	sl *slog.Logger
}

// New creates a Logger from cfg.
func New(cfg Config) *Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: cfg.Level.slog()}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return &Logger{sl: slog.New(handler)}
}

// WithComponent returns a Logger that tags every record with a component name.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{sl: l.sl.With("component", name)}
}

// With returns a Logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{sl: l.sl.With(args...)}
}

// Debug logs at debug level with optional key-value pairs.
func (l *Logger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }

// Info logs at info level with optional key-value pairs.
func (l *Logger) Info(msg string, args ...any) { l.sl.Info(msg, args...) }

// Warn logs at warn level with optional key-value pairs.
func (l *Logger) Warn(msg string, args ...any) { l.sl.Warn(msg, args...) }

// Error logs at error level with optional key-value pairs.
func (l *Logger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.sl.Error(msg, args...)
	os.Exit(1)
}

var (
	defaultMu  sync.RWMutex
	defaultLog = New(DefaultConfig())
)

// Default returns the process-wide default logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLog
}

// SetDefault replaces the process-wide default logger.
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLog = l
}

// Debug logs to the default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs to the default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs to the default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs to the default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }
