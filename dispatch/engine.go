package dispatch

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/sawmill-log/sawmill/core"
	"github.com/sawmill-log/sawmill/formatter"
	"github.com/sawmill-log/sawmill/sink"
)

// Config holds configuration for an Engine
type Config struct {
	// Formatter renders records before sink writes (default: TextFormatter)
	Formatter formatter.Formatter
	// Sinks receive every dispatched record, in order (fixed for the engine's lifetime)
	Sinks []sink.Sink
	// QueueCapacity is the bounded queue size; it is rounded up to a
	// power of two (default: 8192)
	QueueCapacity int
}

// Engine decouples producers from formatting and sink I/O by handing
// each record to a single background worker through a bounded queue.
//
// Field write discipline: only the worker writes failure, only Close
// writes active, and only SetFormatter replaces fmtr. The sink list is
// immutable after New.
type Engine struct {
	active  atomic.Bool
	fmtr    atomic.Pointer[formatter.Formatter]
	failure atomic.Pointer[WorkerError]
	queue   *Queue
	sinks   []sink.Sink
	stats   Stats

	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// New creates an engine and starts its worker goroutine.
func New(cfg Config) *Engine {
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = 8192
	}

	e := &Engine{
		queue: NewQueue(cfg.QueueCapacity),
		sinks: cfg.Sinks,
	}
	e.fmtr.Store(&cfg.Formatter)
	e.active.Store(true)

	e.wg.Add(1)
	go e.worker()

	return e
}

// Log submits one record for asynchronous dispatch.
//
// If a failure from an earlier record is pending on the worker, Log
// clears it and returns it, but the new record is still enqueued:
// failure reporting and submission are independent. When the queue is
// full, Log blocks under the adaptive wait ladder until space frees
// up; there is no enqueue timeout. After Close, Log returns
// ErrInactive without enqueuing.
func (e *Engine) Log(rec *core.Record) error {
	deferred := e.takeFailure()

	if !e.active.Load() {
		if deferred != nil {
			return deferred
		}
		return ErrInactive
	}

	env := core.NewEnvelope(rec)
	if !e.queue.TryEnqueue(env) {
		lastOp := time.Now()
		for {
			e.stats.producerWaits.Add(1)
			sleepOrYield(lastOp)
			if e.queue.TryEnqueue(env) {
				break
			}
		}
	}
	e.stats.enqueued.Add(1)

	if deferred != nil {
		return deferred
	}
	return nil
}

// SetFormatter atomically replaces the formatter. It takes effect for
// the next record the worker processes; every record is rendered by
// exactly one formatter value.
func (e *Engine) SetFormatter(f formatter.Formatter) {
	e.fmtr.Store(&f)
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Snapshot {
	return e.stats.Snapshot()
}

// Close deactivates the engine, waits for the worker to drain every
// queued record, and flushes the sinks. Calling Close more than once
// is harmless; later calls return the first result.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.active.Store(false)
		e.wg.Wait()

		var err error
		for _, s := range e.sinks {
			err = multierr.Append(err, s.Flush())
		}
		e.closeErr = err
	})
	return e.closeErr
}

// takeFailure atomically reads and clears the pending worker failure.
func (e *Engine) takeFailure() error {
	if we := e.failure.Swap(nil); we != nil {
		return we
	}
	return nil
}

// worker is the dispatch loop. It drains the queue completely before
// consulting the active flag, so records queued before Close are never
// discarded; when the queue is observed empty it applies the wait
// ladder, keyed off the last successful dequeue.
func (e *Engine) worker() {
	defer e.wg.Done()

	var rec core.Record
	lastPop := time.Now()
	for {
		for {
			env, ok := e.queue.TryDequeue()
			if !ok {
				break
			}
			lastPop = time.Now()
			e.process(&env, &rec)
		}

		if !e.active.Load() {
			return
		}
		e.stats.workerWaits.Add(1)
		sleepOrYield(lastPop)
	}
}

// process renders one envelope and writes it to every sink. Errors are
// contained at per-record granularity: they are stored in the failure
// slot (latest unreported failure wins) and never stop the worker.
func (e *Engine) process(env *core.Envelope, rec *core.Record) {
	env.Fill(rec)

	f := *e.fmtr.Load()
	line, err := f.Format(rec)
	if err != nil {
		e.storeFailure(err)
		return
	}

	var werr error
	for _, s := range e.sinks {
		werr = multierr.Append(werr, s.Write(rec, line))
	}
	if werr != nil {
		e.storeFailure(werr)
		return
	}
	e.stats.processed.Add(1)
}

// storeFailure records a worker-side failure for the next producer call.
func (e *Engine) storeFailure(err error) {
	e.stats.failures.Add(1)
	e.failure.Store(&WorkerError{When: time.Now(), Err: err})
}
