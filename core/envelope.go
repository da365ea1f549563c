package core

import "time"

// Envelope is a self-contained copy of a Record that can cross the
// producer/worker goroutine boundary. Construction deep-copies the
// message bytes into an owned string, so an envelope never aliases
// memory owned by the producer after NewEnvelope returns. Each
// envelope is consumed exactly once by the single dispatch worker.
type Envelope struct {
	name  string
	level Level
	time  time.Time
	text  string
}

// NewEnvelope builds an envelope from a producer-owned record.
func NewEnvelope(r *Record) Envelope {
	return Envelope{
		name:  r.Name,
		level: r.Level,
		time:  r.Time,
		text:  string(r.Message),
	}
}

// Fill reconstitutes the record view of the envelope into rec,
// reusing rec's message buffer where possible.
func (e *Envelope) Fill(rec *Record) {
	rec.Name = e.name
	rec.Level = e.level
	rec.Time = e.time
	rec.Message = append(rec.Message[:0], e.text...)
}

// Level returns the severity carried by the envelope.
func (e *Envelope) Level() Level {
	return e.level
}
