// Package slogbridge lets a sawmill dispatch engine serve as a backend
// for the standard library's log/slog.
//
//	engine := dispatch.New(dispatch.Config{Sinks: []sink.Sink{out}})
//	log := slog.New(slogbridge.NewHandler(engine, "app", core.InfoLevel))
//	log.Info("ready", "port", 8080)
//
// Attributes and groups are flattened into " key=value" pairs appended
// to the message text before the record crosses into the engine, so
// the envelope never references slog-owned memory.
package slogbridge
