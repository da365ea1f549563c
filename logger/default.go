package logger

import (
	"sync"

	"github.com/sawmill-log/sawmill/dispatch"
	"github.com/sawmill-log/sawmill/sink"
)

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

func init() {
	// Initialize default logger with a stdout engine
	engine := dispatch.New(dispatch.Config{
		Sinks: []sink.Sink{sink.NewWriterSink(nil)},
	})
	defaultLogger = New("", engine)
}

// Default returns the default logger
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger
func SetDefault(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// Package-level convenience functions using the default logger

// Debug logs a debug message using the default logger
func Debug(msg string) error {
	return Default().Debug(msg)
}

// Info logs an info message using the default logger
func Info(msg string) error {
	return Default().Info(msg)
}

// Warn logs a warning message using the default logger
func Warn(msg string) error {
	return Default().Warn(msg)
}

// Error logs an error message using the default logger
func Error(msg string) error {
	return Default().Error(msg)
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...interface{}) error {
	return Default().Debugf(format, args...)
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) error {
	return Default().Infof(format, args...)
}

// Warnf logs a formatted warning message using the default logger
func Warnf(format string, args ...interface{}) error {
	return Default().Warnf(format, args...)
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) error {
	return Default().Errorf(format, args...)
}
