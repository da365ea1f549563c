package dispatch

import (
	"sync/atomic"

	"github.com/sawmill-log/sawmill/core"
)

// Queue is a bounded multi-producer single-consumer ring of envelope
// slots. Each slot carries a sequence counter that encodes whether it
// is free for the producer at a given position or holds an envelope
// for the consumer, so both operations complete without locks.
//
// TryEnqueue is safe for any number of concurrent producers.
// TryDequeue must only be called from one goroutine at a time.
// Neither operation ever blocks: a full queue fails the enqueue and an
// empty queue fails the dequeue immediately.
type Queue struct {
	mask       uint64
	slots      []slot
	enqueuePos atomic.Uint64
	dequeuePos atomic.Uint64
}

type slot struct {
	seq atomic.Uint64
	env core.Envelope
}

// NewQueue creates a queue with at least the given capacity. The
// capacity is rounded up to the next power of two; Cap reports the
// effective value. Capacity is fixed for the queue's lifetime.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}

	q := &Queue{
		mask:  size - 1,
		slots: make([]slot, size),
	}
	for i := range q.slots {
		q.slots[i].seq.Store(uint64(i))
	}
	return q
}

// Cap returns the fixed capacity of the queue.
func (q *Queue) Cap() int {
	return len(q.slots)
}

// TryEnqueue stores env in the next free slot and reports success.
// It returns false immediately when the queue is full.
func (q *Queue) TryEnqueue(env core.Envelope) bool {
	size := uint64(len(q.slots))
	pos := q.enqueuePos.Load()
	for {
		// Occupancy check before claiming. The slot sequence alone
		// cannot detect fullness when size is 1: after an enqueue at
		// p the seq becomes p+1, which with mask 0 is also the free
		// condition for position p+1.
		if pos-q.dequeuePos.Load() >= size {
			return false
		}
		s := &q.slots[pos&q.mask]
		seq := s.seq.Load()
		switch {
		case seq == pos:
			// Slot is free for this position; claim it
			if q.enqueuePos.CompareAndSwap(pos, pos+1) {
				s.env = env
				s.seq.Store(pos + 1)
				return true
			}
			pos = q.enqueuePos.Load()
		case seq < pos:
			// Slot still holds an unconsumed envelope from a full
			// lap ago: the queue is full
			return false
		default:
			// Another producer claimed this position; retry
			pos = q.enqueuePos.Load()
		}
	}
}

// TryDequeue removes and returns the oldest enqueued envelope.
// It returns false immediately when the queue is empty.
func (q *Queue) TryDequeue() (core.Envelope, bool) {
	pos := q.dequeuePos.Load()
	s := &q.slots[pos&q.mask]
	seq := s.seq.Load()
	if seq != pos+1 {
		// The producer at this position has not published yet
		return core.Envelope{}, false
	}

	env := s.env
	s.env = core.Envelope{}
	// Mark the slot free for the producer one lap ahead
	s.seq.Store(pos + q.mask + 1)
	q.dequeuePos.Store(pos + 1)
	return env, true
}
