package slogbridge

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/sawmill-log/sawmill/core"
	"github.com/sawmill-log/sawmill/dispatch"
)

// Handler is an adapter that implements slog.Handler on top of a
// dispatch engine. Attributes are rendered into the message text on
// the calling goroutine, matching the engine's owned-bytes model.
type Handler struct {
	engine *dispatch.Engine
	name   string
	level  core.Level
	attrs  []byte
	group  string
}

// NewHandler creates a slog.Handler adapter around the given engine.
func NewHandler(engine *dispatch.Engine, name string, level core.Level) *Handler {
	return &Handler{
		engine: engine,
		name:   name,
		level:  level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return slogLevelToCore(level) >= h.level
}

// Handle converts a slog.Record into a core.Record and submits it to
// the engine. A deferred worker failure surfaces as the return value,
// which slog reports through its error handling.
func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer
	buf.WriteString(record.Message)

	buf.Write(h.attrs)
	record.Attrs(func(a slog.Attr) bool {
		appendAttr(&buf, h.group, a)
		return true
	})

	rec := core.Record{
		Name:    h.name,
		Level:   slogLevelToCore(record.Level),
		Time:    record.Time,
		Message: buf.Bytes(),
	}
	return h.engine.Log(&rec)
}

// WithAttrs returns a new Handler with additional pre-rendered attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := bytes.NewBuffer(append([]byte(nil), h.attrs...))
	for _, a := range attrs {
		appendAttr(buf, h.group, a)
	}
	return &Handler{
		engine: h.engine,
		name:   h.name,
		level:  h.level,
		attrs:  buf.Bytes(),
		group:  h.group,
	}
}

// WithGroup returns a new Handler with the given group name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	newGroup := name
	if h.group != "" {
		newGroup = h.group + "." + name
	}
	return &Handler{
		engine: h.engine,
		name:   h.name,
		level:  h.level,
		attrs:  h.attrs,
		group:  newGroup,
	}
}

// appendAttr writes one attribute as " key=value", prepending the group prefix.
func appendAttr(buf *bytes.Buffer, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	buf.WriteByte(' ')
	if group != "" {
		buf.WriteString(group)
		buf.WriteByte('.')
	}
	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(a.Value.String())
}

// slogLevelToCore converts a slog.Level to a core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}
