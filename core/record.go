package core

import "time"

// Record represents a single log event as seen by the producer thread.
// The Message slice is owned by the caller and is only valid for the
// duration of a single call into the dispatch engine; anything that
// needs to keep the text past that point must copy it (see Envelope).
type Record struct {
	Name    string
	Level   Level
	Time    time.Time
	Message []byte
}

// Text returns the message bytes as a string.
func (r *Record) Text() string {
	return string(r.Message)
}

// Reset clears the record for reuse.
func (r *Record) Reset() {
	r.Name = ""
	r.Level = DebugLevel
	r.Time = time.Time{}
	r.Message = r.Message[:0]
}
