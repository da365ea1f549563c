package sink

import "github.com/sawmill-log/sawmill/core"

// Sink is an output destination for dispatched log records. The
// dispatch worker calls Write for every record, passing both the
// record and the line already rendered by the engine's formatter.
// Write is only ever called from the single worker goroutine, so
// implementations do not need to be safe for concurrent Write calls
// unless they are also used outside an engine.
type Sink interface {
	// Write outputs one formatted record
	Write(rec *core.Record, line []byte) error

	// Flush forces any buffered output to its destination
	Flush() error

	// Close flushes and releases resources held by the sink
	Close() error
}
