package sink

import (
	"go.uber.org/zap/zapcore"

	"github.com/sawmill-log/sawmill/core"
)

// ZapSink forwards dispatched records into a zapcore.Core, letting the
// engine feed any zap-based output pipeline (encoders, samplers, tees).
// The rendered line is ignored; zap applies its own encoding.
type ZapSink struct {
	core zapcore.Core
}

// NewZapSink creates a sink around the given zap core.
func NewZapSink(zc zapcore.Core) *ZapSink {
	return &ZapSink{core: zc}
}

// Write converts the record into a zapcore.Entry and hands it to the core
func (s *ZapSink) Write(rec *core.Record, _ []byte) error {
	lvl := zapLevel(rec.Level)
	if !s.core.Enabled(lvl) {
		return nil
	}
	entry := zapcore.Entry{
		Level:      lvl,
		Time:       rec.Time,
		LoggerName: rec.Name,
		Message:    string(rec.Message),
	}
	return s.core.Write(entry, nil)
}

// Flush syncs the underlying zap core
func (s *ZapSink) Flush() error {
	return s.core.Sync()
}

// Close syncs the underlying zap core
func (s *ZapSink) Close() error {
	return s.core.Sync()
}

// zapLevel maps a core.Level to the equivalent zapcore.Level
func zapLevel(l core.Level) zapcore.Level {
	switch l {
	case core.DebugLevel:
		return zapcore.DebugLevel
	case core.InfoLevel:
		return zapcore.InfoLevel
	case core.WarnLevel:
		return zapcore.WarnLevel
	case core.ErrorLevel:
		return zapcore.ErrorLevel
	case core.FatalLevel:
		// Fatal entries must not terminate the worker; map to Error
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
