package logger

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sawmill-log/sawmill/core"
	"github.com/sawmill-log/sawmill/dispatch"
	"github.com/sawmill-log/sawmill/formatter"
)

// Logger is a named front end over a dispatch engine. It applies the
// level threshold and renders the message text on the producer side,
// so the record handed to the engine already carries its final bytes.
// A Logger is safe for concurrent use; the level may be changed at
// any time with SetLevel.
type Logger struct {
	name   string
	level  atomic.Int32
	engine *dispatch.Engine
	clock  func() time.Time
}

// Option configures a Logger at construction time
type Option func(*Logger)

// WithLevel sets the initial level threshold (default: InfoLevel)
func WithLevel(level Level) Option {
	return func(l *Logger) {
		l.level.Store(int32(level))
	}
}

// WithClock sets the timestamp source (default: time.Now)
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) {
		l.clock = clock
	}
}

// WithCoarseClock uses the cached coarse clock for timestamps. It
// trades up to ~500µs of timestamp precision for a much cheaper
// per-record time lookup.
func WithCoarseClock() Option {
	return func(l *Logger) {
		core.StartCoarseClock()
		l.clock = core.CoarseNow
	}
}

// New creates a named logger that submits records to the given engine.
func New(name string, engine *dispatch.Engine, opts ...Option) *Logger {
	l := &Logger{
		name:   name,
		engine: engine,
		clock:  time.Now,
	}
	l.level.Store(int32(InfoLevel))
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the logger's name
func (l *Logger) Name() string {
	return l.name
}

// Level returns the current level threshold
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// SetLevel changes the level threshold
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Log submits a message at the given level. It returns ErrInactive
// after the engine is closed, or a deferred WorkerError from an
// earlier record's formatter or sink failure.
func (l *Logger) Log(level Level, msg string) error {
	if level < l.Level() {
		return nil
	}
	rec := core.Record{
		Name:    l.name,
		Level:   level,
		Time:    l.clock(),
		Message: []byte(msg),
	}
	return l.engine.Log(&rec)
}

// Logf submits a formatted message at the given level
func (l *Logger) Logf(level Level, format string, args ...interface{}) error {
	if level < l.Level() {
		return nil
	}
	rec := core.Record{
		Name:    l.name,
		Level:   level,
		Time:    l.clock(),
		Message: fmt.Appendf(nil, format, args...),
	}
	return l.engine.Log(&rec)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) error {
	return l.Log(DebugLevel, msg)
}

// Info logs an info message
func (l *Logger) Info(msg string) error {
	return l.Log(InfoLevel, msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) error {
	return l.Log(WarnLevel, msg)
}

// Error logs an error message
func (l *Logger) Error(msg string) error {
	return l.Log(ErrorLevel, msg)
}

// Debugf logs a debug message with formatting
func (l *Logger) Debugf(format string, args ...interface{}) error {
	return l.Logf(DebugLevel, format, args...)
}

// Infof logs an info message with formatting
func (l *Logger) Infof(format string, args ...interface{}) error {
	return l.Logf(InfoLevel, format, args...)
}

// Warnf logs a warning message with formatting
func (l *Logger) Warnf(format string, args ...interface{}) error {
	return l.Logf(WarnLevel, format, args...)
}

// Errorf logs an error message with formatting
func (l *Logger) Errorf(format string, args ...interface{}) error {
	return l.Logf(ErrorLevel, format, args...)
}

// SetFormatter replaces the formatter on the underlying engine
func (l *Logger) SetFormatter(f formatter.Formatter) {
	l.engine.SetFormatter(f)
}

// Engine returns the dispatch engine backing this logger
func (l *Logger) Engine() *dispatch.Engine {
	return l.engine
}
