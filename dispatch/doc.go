// Package dispatch implements the asynchronous log dispatch engine.
//
// Producers hand records to a single background worker through a
// bounded lock-free queue. The producer path copies the record into an
// owned envelope, so its latency stays near-constant even when sinks
// are slow; the worker formats each record once and writes the result
// to every sink in registration order.
//
// Both sides of the queue share the same adaptive wait ladder when the
// queue is full (producers) or empty (worker): spin up to 1ms since
// the last successful operation, yield up to 10ms, then sleep for half
// the elapsed time capped at 100ms. Queue-full and queue-empty are
// never surfaced as errors; they only drive this ladder.
//
// Failures on the worker (formatter or sink errors) do not stop the
// engine. The most recent one is parked in a single slot and returned
// by the next Log call from any producer; that call's own record is
// still enqueued. Close deactivates the engine and waits for the
// worker to drain everything already queued, so graceful shutdown
// never loses records.
package dispatch
