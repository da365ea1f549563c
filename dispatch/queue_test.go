package dispatch

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sawmill-log/sawmill/core"
)

func makeEnvelope(msg string) core.Envelope {
	rec := core.Record{
		Name:    "q",
		Level:   core.InfoLevel,
		Time:    time.Now(),
		Message: []byte(msg),
	}
	return core.NewEnvelope(&rec)
}

func envelopeText(env *core.Envelope) string {
	var rec core.Record
	env.Fill(&rec)
	return string(rec.Message)
}

func TestQueue_FIFO(t *testing.T) {
	q := NewQueue(16)

	for i := 0; i < 10; i++ {
		if !q.TryEnqueue(makeEnvelope(fmt.Sprintf("msg-%d", i))) {
			t.Fatalf("TryEnqueue(%d) failed on non-full queue", i)
		}
	}

	for i := 0; i < 10; i++ {
		env, ok := q.TryDequeue()
		if !ok {
			t.Fatalf("TryDequeue() empty at %d", i)
		}
		want := fmt.Sprintf("msg-%d", i)
		if got := envelopeText(&env); got != want {
			t.Errorf("dequeue %d = %q, want %q", i, got, want)
		}
	}
}

func TestQueue_CapacityBound(t *testing.T) {
	q := NewQueue(4)

	for i := 0; i < q.Cap(); i++ {
		if !q.TryEnqueue(makeEnvelope("x")) {
			t.Fatalf("TryEnqueue(%d) failed below capacity", i)
		}
	}

	// The (C+1)-th enqueue without a dequeue must fail immediately
	if q.TryEnqueue(makeEnvelope("overflow")) {
		t.Error("TryEnqueue succeeded on a full queue")
	}

	// Draining one slot makes room for exactly one more
	if _, ok := q.TryDequeue(); !ok {
		t.Fatal("TryDequeue failed on full queue")
	}
	if !q.TryEnqueue(makeEnvelope("fits")) {
		t.Error("TryEnqueue failed after a dequeue freed a slot")
	}
}

func TestQueue_CapacityOne(t *testing.T) {
	q := NewQueue(1)

	if !q.TryEnqueue(makeEnvelope("first")) {
		t.Fatal("TryEnqueue failed on empty capacity-1 queue")
	}
	if q.TryEnqueue(makeEnvelope("second")) {
		t.Fatal("TryEnqueue succeeded on a full capacity-1 queue")
	}

	env, ok := q.TryDequeue()
	if !ok {
		t.Fatal("TryDequeue found the queue empty after an enqueue")
	}
	if got := envelopeText(&env); got != "first" {
		t.Fatalf("dequeued %q, want %q", got, "first")
	}

	// The single slot must keep cycling across laps
	for lap := 0; lap < 5; lap++ {
		msg := fmt.Sprintf("lap-%d", lap)
		if !q.TryEnqueue(makeEnvelope(msg)) {
			t.Fatalf("lap %d: TryEnqueue failed on drained queue", lap)
		}
		if q.TryEnqueue(makeEnvelope("overflow")) {
			t.Fatalf("lap %d: TryEnqueue succeeded on full queue", lap)
		}
		env, ok := q.TryDequeue()
		if !ok {
			t.Fatalf("lap %d: TryDequeue found the queue empty", lap)
		}
		if got := envelopeText(&env); got != msg {
			t.Fatalf("lap %d: dequeued %q, want %q", lap, got, msg)
		}
	}
	if _, ok := q.TryDequeue(); ok {
		t.Error("TryDequeue succeeded after queue drained")
	}
}

func TestQueue_EmptyDequeue(t *testing.T) {
	q := NewQueue(8)

	if _, ok := q.TryDequeue(); ok {
		t.Error("TryDequeue succeeded on empty queue")
	}

	q.TryEnqueue(makeEnvelope("only"))
	if _, ok := q.TryDequeue(); !ok {
		t.Error("TryDequeue failed with one item queued")
	}
	if _, ok := q.TryDequeue(); ok {
		t.Error("TryDequeue succeeded after queue drained")
	}
}

func TestQueue_CapacityRounding(t *testing.T) {
	tests := []struct {
		request int
		want    int
	}{
		{0, 1},
		{1, 1},
		{3, 4},
		{8, 8},
		{1000, 1024},
	}
	for _, tt := range tests {
		q := NewQueue(tt.request)
		if q.Cap() != tt.want {
			t.Errorf("NewQueue(%d).Cap() = %d, want %d", tt.request, q.Cap(), tt.want)
		}
	}
}

func TestQueue_ConcurrentProducers(t *testing.T) {
	const producers = 8
	const perProducer = 500

	q := NewQueue(producers * perProducer)
	var wg sync.WaitGroup

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				msg := fmt.Sprintf("p%d-%d", p, i)
				for !q.TryEnqueue(makeEnvelope(msg)) {
					// queue oversized; should never spin, but be safe
				}
			}
		}(p)
	}
	wg.Wait()

	// Every message arrives exactly once, and per-producer order holds
	seen := make(map[string]bool, producers*perProducer)
	next := make([]int, producers)
	for {
		env, ok := q.TryDequeue()
		if !ok {
			break
		}
		msg := envelopeText(&env)
		if seen[msg] {
			t.Fatalf("duplicate message %q", msg)
		}
		seen[msg] = true

		var p, i int
		if _, err := fmt.Sscanf(msg, "p%d-%d", &p, &i); err != nil {
			t.Fatalf("unexpected message %q", msg)
		}
		if i != next[p] {
			t.Fatalf("producer %d out of order: got %d, want %d", p, i, next[p])
		}
		next[p]++
	}

	if len(seen) != producers*perProducer {
		t.Errorf("dequeued %d messages, want %d", len(seen), producers*perProducer)
	}
}
