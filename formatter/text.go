package formatter

import (
	"bytes"
	"time"

	"github.com/sawmill-log/sawmill/core"
)

// TextFormatter formats log records as human-readable text
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.DebugLevel: " [DEBUG] ",
	core.InfoLevel:  " [INFO] ",
	core.WarnLevel:  " [WARN] ",
	core.ErrorLevel: " [ERROR] ",
	core.FatalLevel: " [FATAL] ",
}

// Format renders a record as a single text line
func (f *TextFormatter) Format(rec *core.Record) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.formatToBuffer(rec, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// formatToBuffer writes the formatted record into the given buffer
func (f *TextFormatter) formatToBuffer(rec *core.Record, buf *bytes.Buffer) {
	// Timestamp - use AppendFormat to avoid string allocation
	buf.Write(rec.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	// Level - use pre-formatted string
	if int(rec.Level) >= 0 && int(rec.Level) < len(levelBrackets) {
		buf.WriteString(levelBrackets[rec.Level])
	} else {
		buf.WriteString(" [UNKNOWN] ")
	}

	// Logger name
	if rec.Name != "" {
		buf.WriteByte('[')
		buf.WriteString(rec.Name)
		buf.WriteString("] ")
	}

	// Message
	buf.Write(rec.Message)

	buf.WriteByte('\n')
}
