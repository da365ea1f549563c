// Package core defines the shared types used across the sawmill
// dispatch engine.
//
// It provides the Level type for severity classification, the Record
// type that represents a single log event on the producer side, and
// the Envelope type that carries an owned copy of a record across the
// goroutine boundary into the dispatch worker.
//
// The ownership rule is the heart of the design: a Record's message
// buffer belongs to the producer and is only valid during a single
// call into the engine, while an Envelope owns every byte it carries.
// NewEnvelope performs the one deep copy in the pipeline; after it
// returns, the producer may reuse or free its buffer and the worker
// may read the envelope without any locking.
package core
