package dispatch

import (
	"runtime"
	"time"
)

// Thresholds of the adaptive wait ladder, measured as time elapsed
// since the last successful queue operation.
const (
	spinThreshold  = time.Millisecond
	yieldThreshold = 10 * time.Millisecond
	sleepCeiling   = 100 * time.Millisecond
)

// waitAction describes what a waiter should do before retrying a
// failed queue operation.
type waitAction struct {
	yield bool
	sleep time.Duration
}

// nextWait maps elapsed-time-since-last-success to a wait action.
// It is a pure function so the ladder can be tested without goroutines:
//
//	<= 1ms   spin (retry immediately)
//	<= 10ms  yield the scheduling slot
//	<= 100ms sleep for half the elapsed duration
//	 > 100ms sleep for the 100ms ceiling
func nextWait(elapsed time.Duration) waitAction {
	switch {
	case elapsed <= spinThreshold:
		return waitAction{}
	case elapsed <= yieldThreshold:
		return waitAction{yield: true}
	case elapsed <= sleepCeiling:
		return waitAction{sleep: elapsed / 2}
	default:
		return waitAction{sleep: sleepCeiling}
	}
}

// sleepOrYield applies the wait ladder given the time of the last
// successful operation. Producers blocked on a full queue and the
// worker polling an empty queue share this policy: both are waiting
// for the other side to make progress, with identical tradeoffs.
func sleepOrYield(lastOp time.Time) {
	a := nextWait(time.Since(lastOp))
	switch {
	case a.sleep > 0:
		time.Sleep(a.sleep)
	case a.yield:
		runtime.Gosched()
	}
}
