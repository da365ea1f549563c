package dispatch

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sawmill-log/sawmill/core"
	"github.com/sawmill-log/sawmill/sink"
)

// captureSink records every line it receives
type captureSink struct {
	mu    sync.Mutex
	lines []string
	delay time.Duration
}

func (s *captureSink) Write(_ *core.Record, line []byte) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	s.lines = append(s.lines, string(line))
	s.mu.Unlock()
	return nil
}

func (s *captureSink) Flush() error { return nil }
func (s *captureSink) Close() error { return nil }

func (s *captureSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

// gatedSink blocks every Write until the gate is opened and signals
// each entry on the entered channel
type gatedSink struct {
	captureSink
	gate    chan struct{}
	entered chan struct{}
}

func newGatedSink() *gatedSink {
	return &gatedSink{
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 16),
	}
}

func (s *gatedSink) Write(rec *core.Record, line []byte) error {
	s.entered <- struct{}{}
	<-s.gate
	return s.captureSink.Write(rec, line)
}

// failNextSink fails exactly the writes that are armed
type failNextSink struct {
	captureSink
	mu       sync.Mutex
	failures int
}

func (s *failNextSink) arm(n int) {
	s.mu.Lock()
	s.failures = n
	s.mu.Unlock()
}

func (s *failNextSink) Write(rec *core.Record, line []byte) error {
	s.mu.Lock()
	if s.failures > 0 {
		s.failures--
		s.mu.Unlock()
		return errors.New("sink write refused")
	}
	s.mu.Unlock()
	return s.captureSink.Write(rec, line)
}

// rawFormatter renders the message bytes with an optional prefix, and
// can be told to fail for one specific message
type rawFormatter struct {
	prefix  string
	failFor string
}

func (f *rawFormatter) Format(rec *core.Record) ([]byte, error) {
	if f.failFor != "" && string(rec.Message) == f.failFor {
		return nil, fmt.Errorf("cannot render %q", rec.Message)
	}
	out := make([]byte, 0, len(f.prefix)+len(rec.Message)+1)
	out = append(out, f.prefix...)
	out = append(out, rec.Message...)
	out = append(out, '\n')
	return out, nil
}

func testRecord(msg string) *core.Record {
	return &core.Record{
		Name:    "test",
		Level:   core.InfoLevel,
		Time:    time.Now(),
		Message: []byte(msg),
	}
}

// waitFor polls cond until it holds or the timeout expires
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before timeout")
}

func TestEngine_DeliversInOrder(t *testing.T) {
	cs := &captureSink{}
	e := New(Config{
		Formatter:     &rawFormatter{},
		Sinks:         []sink.Sink{cs},
		QueueCapacity: 64,
	})

	const n = 200
	for i := 0; i < n; i++ {
		if err := e.Log(testRecord(fmt.Sprintf("msg-%d", i))); err != nil {
			t.Fatalf("Log(%d) error = %v", i, err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := cs.all()
	if len(lines) != n {
		t.Fatalf("delivered %d lines, want %d", len(lines), n)
	}
	for i, line := range lines {
		want := fmt.Sprintf("msg-%d\n", i)
		if line != want {
			t.Errorf("line %d = %q, want %q", i, line, want)
		}
	}
}

func TestEngine_LogAfterClose(t *testing.T) {
	e := New(Config{Formatter: &rawFormatter{}})
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if err := e.Log(testRecord("late")); !errors.Is(err, ErrInactive) {
		t.Errorf("Log after Close = %v, want ErrInactive", err)
	}
}

func TestEngine_CloseIdempotent(t *testing.T) {
	e := New(Config{Formatter: &rawFormatter{}})
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestEngine_SinkFailureReportedExactlyOnce(t *testing.T) {
	fs := &failNextSink{}
	e := New(Config{Formatter: &rawFormatter{}, Sinks: []sink.Sink{fs}})
	defer e.Close()

	fs.arm(1)
	if err := e.Log(testRecord("doomed")); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	waitFor(t, time.Second, func() bool {
		return e.Stats().Failures == 1
	})

	// The next call from any producer observes exactly one WorkerError
	err := e.Log(testRecord("observer"))
	var we *WorkerError
	if !errors.As(err, &we) {
		t.Fatalf("Log() = %v, want *WorkerError", err)
	}
	if !strings.Contains(we.Error(), "sink write refused") {
		t.Errorf("failure description %q missing cause", we.Error())
	}

	// Subsequent calls observe none until another fault occurs
	waitFor(t, time.Second, func() bool {
		return e.Stats().Processed >= 1
	})
	if err := e.Log(testRecord("clean")); err != nil {
		t.Errorf("Log() after failure drained = %v, want nil", err)
	}
}

func TestEngine_FormatterFailureNextMessageStillAttempted(t *testing.T) {
	cs := &captureSink{}
	e := New(Config{
		Formatter: &rawFormatter{failFor: "A"},
		Sinks:     []sink.Sink{cs},
	})

	if err := e.Log(testRecord("A")); err != nil {
		t.Fatalf("Log(A) error = %v", err)
	}
	waitFor(t, time.Second, func() bool {
		return e.Stats().Failures == 1
	})

	// The caller of the next Log gets the deferred failure, and its
	// own record is still enqueued
	err := e.Log(testRecord("B"))
	var we *WorkerError
	if !errors.As(err, &we) {
		t.Fatalf("Log(B) = %v, want *WorkerError", err)
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := cs.all()
	if len(lines) != 1 || lines[0] != "B\n" {
		t.Errorf("delivered %v, want only B", lines)
	}
}

func TestEngine_ShutdownDrainsQueued(t *testing.T) {
	cs := &captureSink{delay: time.Millisecond}
	e := New(Config{
		Formatter:     &rawFormatter{},
		Sinks:         []sink.Sink{cs},
		QueueCapacity: 128,
	})

	const n = 50
	for i := 0; i < n; i++ {
		if err := e.Log(testRecord(fmt.Sprintf("queued-%d", i))); err != nil {
			t.Fatalf("Log(%d) error = %v", i, err)
		}
	}

	// Close must not return until everything already queued is delivered
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := len(cs.all()); got != n {
		t.Errorf("delivered %d lines before Close returned, want %d", got, n)
	}
}

func TestEngine_CapacityOneTwoProducers(t *testing.T) {
	gs := newGatedSink()
	e := New(Config{
		Formatter:     &rawFormatter{},
		Sinks:         []sink.Sink{gs},
		QueueCapacity: 1,
	})

	// First record: the worker dequeues it and parks inside the sink
	if err := e.Log(testRecord("in-flight")); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	select {
	case <-gs.entered:
	case <-time.After(time.Second):
		t.Fatal("worker never reached the sink")
	}

	// Second record fills the single queue slot immediately
	if err := e.Log(testRecord("parked")); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	// Third producer must block until the worker drains
	done := make(chan error, 1)
	go func() {
		done <- e.Log(testRecord("blocked"))
	}()

	select {
	case <-done:
		t.Fatal("producer returned while the queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	close(gs.gate)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("blocked Log() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("producer still blocked after worker drained")
	}

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := len(gs.all()); got != 3 {
		t.Errorf("delivered %d lines, want 3", got)
	}
}

func TestEngine_SetFormatterEachRecordUsesOneFormatter(t *testing.T) {
	cs := &captureSink{}
	e := New(Config{
		Formatter:     &rawFormatter{prefix: "old|"},
		Sinks:         []sink.Sink{cs},
		QueueCapacity: 32,
	})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				e.SetFormatter(&rawFormatter{prefix: "new|"})
			} else {
				e.SetFormatter(&rawFormatter{prefix: "old|"})
			}
		}
	}()

	const n = 500
	for i := 0; i < n; i++ {
		if err := e.Log(testRecord("m")); err != nil {
			t.Fatalf("Log(%d) error = %v", i, err)
		}
	}
	close(stop)
	wg.Wait()
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := cs.all()
	if len(lines) != n {
		t.Fatalf("delivered %d lines, want %d", len(lines), n)
	}
	for i, line := range lines {
		if line != "old|m\n" && line != "new|m\n" {
			t.Errorf("line %d = %q rendered by a torn formatter", i, line)
		}
	}
}

func TestEngine_Defaults(t *testing.T) {
	e := New(Config{})
	if got := e.queue.Cap(); got != 8192 {
		t.Errorf("default queue capacity = %d, want 8192", got)
	}
	if err := e.Log(testRecord("no sinks")); err != nil {
		t.Errorf("Log() with no sinks error = %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestEngine_Stats(t *testing.T) {
	cs := &captureSink{}
	e := New(Config{Formatter: &rawFormatter{}, Sinks: []sink.Sink{cs}})

	for i := 0; i < 10; i++ {
		if err := e.Log(testRecord("s")); err != nil {
			t.Fatalf("Log() error = %v", err)
		}
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	snap := e.Stats()
	if snap.Enqueued != 10 {
		t.Errorf("Enqueued = %d, want 10", snap.Enqueued)
	}
	if snap.Processed != 10 {
		t.Errorf("Processed = %d, want 10", snap.Processed)
	}
	if snap.Failures != 0 {
		t.Errorf("Failures = %d, want 0", snap.Failures)
	}
}
