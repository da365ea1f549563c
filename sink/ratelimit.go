package sink

import (
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/sawmill-log/sawmill/core"
)

// RateLimitedSink wraps another sink and drops records beyond a
// sustained per-second rate. It never blocks the dispatch worker:
// records that exceed the limit are counted and discarded.
type RateLimitedSink struct {
	inner   Sink
	limiter *rate.Limiter
	dropped atomic.Uint64
}

// NewRateLimitedSink creates a rate-limited decorator around inner.
// maxPerSecond is both the sustained rate and the burst size.
func NewRateLimitedSink(inner Sink, maxPerSecond int) *RateLimitedSink {
	return &RateLimitedSink{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(maxPerSecond), maxPerSecond),
	}
}

// Write forwards the record unless the rate limit is exceeded
func (s *RateLimitedSink) Write(rec *core.Record, line []byte) error {
	if !s.limiter.Allow() {
		s.dropped.Add(1)
		return nil
	}
	return s.inner.Write(rec, line)
}

// Flush flushes the wrapped sink
func (s *RateLimitedSink) Flush() error {
	return s.inner.Flush()
}

// Close closes the wrapped sink
func (s *RateLimitedSink) Close() error {
	return s.inner.Close()
}

// Dropped returns the number of records discarded by the limiter
func (s *RateLimitedSink) Dropped() uint64 {
	return s.dropped.Load()
}
