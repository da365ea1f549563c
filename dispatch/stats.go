package dispatch

import "sync/atomic"

// Stats tracks engine counters. All fields are updated atomically and
// may be read at any time via Snapshot.
type Stats struct {
	// enqueued counts records accepted into the queue
	enqueued atomic.Uint64
	// processed counts records fully dispatched to all sinks
	processed atomic.Uint64
	// failures counts per-record formatter/sink failures
	failures atomic.Uint64
	// producerWaits counts wait iterations spent by producers on a full queue
	producerWaits atomic.Uint64
	// workerWaits counts wait iterations spent by the worker on an empty queue
	workerWaits atomic.Uint64
}

// Snapshot is a point-in-time copy of the engine counters
type Snapshot struct {
	Enqueued      uint64
	Processed     uint64
	Failures      uint64
	ProducerWaits uint64
	WorkerWaits   uint64
}

// Snapshot returns a copy of the current counter values
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Enqueued:      s.enqueued.Load(),
		Processed:     s.processed.Load(),
		Failures:      s.failures.Load(),
		ProducerWaits: s.producerWaits.Load(),
		WorkerWaits:   s.workerWaits.Load(),
	}
}
