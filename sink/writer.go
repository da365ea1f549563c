package sink

import (
	"io"
	"os"
	"sync"

	"github.com/sawmill-log/sawmill/core"
)

// WriterSink writes formatted records to an io.Writer (default: os.Stdout).
// The sink does not take ownership of the writer; Close never closes it.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink around w. A nil writer defaults to stdout.
func NewWriterSink(w io.Writer) *WriterSink {
	if w == nil {
		w = os.Stdout
	}
	return &WriterSink{w: w}
}

// Write outputs one formatted line
func (s *WriterSink) Write(_ *core.Record, line []byte) error {
	s.mu.Lock()
	_, err := s.w.Write(line)
	s.mu.Unlock()
	return err
}

// Flush is a no-op; the sink writes through without buffering
func (s *WriterSink) Flush() error {
	return nil
}

// Close is a no-op; the underlying writer stays open
func (s *WriterSink) Close() error {
	return nil
}
