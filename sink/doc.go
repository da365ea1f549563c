// Package sink provides the Sink interface and its built-in
// implementations for writing dispatched log records to outputs.
//
// A sink receives each record exactly once from the single dispatch
// worker goroutine, together with the line already rendered by the
// engine's formatter. Sinks are registered at engine construction and
// the list never changes afterwards, so ordering across sinks is fixed.
//
// Built-in sinks:
//
//   - WriterSink writes lines to any io.Writer (default: stdout).
//   - FileSink writes to a file through a buffered writer with
//     size-based rotation and backup cleanup.
//   - ZapSink forwards records into a zapcore.Core so the engine can
//     drive any zap output pipeline.
//   - RateLimitedSink decorates another sink with a rate.Limiter,
//     dropping (and counting) records beyond a sustained rate.
//
// Write errors do not stop the dispatch worker; the engine records the
// most recent failure and reports it to the next producer call.
package sink
