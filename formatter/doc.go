// Package formatter defines how log records are serialized into bytes.
//
// The Formatter interface has a single operation, Format, which renders
// a core.Record into its final output line. The dispatch worker formats
// each record exactly once and hands the same bytes to every sink, so a
// Formatter must return a slice the caller may retain.
//
// Both built-in formatters (TextFormatter and JSONFormatter) use a
// pooled bytes.Buffer internally and rely on Go's Append-style
// functions (time.AppendFormat) to avoid per-call allocations. The
// TextFormatter additionally pre-computes level bracket strings
// (" [INFO] ", etc.) so that the most common path is a single
// WriteString call.
//
// Buffers larger than 64 KiB are not returned to the pool to prevent
// a single large log line from permanently inflating memory usage.
package formatter
