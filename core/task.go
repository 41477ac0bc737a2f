package core

import (
	"context"
	"sync/atomic"
)

// =============================================================================
// Priority: Total-ordered extraction key for queued tasks
// =============================================================================

// Priority classifies a task for extraction order from the executor's queue.
// A larger value always extracts before a smaller one. Tasks of equal
// priority extract in submission order.
type Priority int

const (
	// PriorityLowest is used by drain barriers (Wait) and the shutdown marker,
	// so that they only run once every more urgent task has completed.
	PriorityLowest Priority = iota

	PriorityLower
	PriorityLow

	// PriorityNormal is the default for all submissions.
	PriorityNormal

	PriorityHigh
	PriorityHigher
)

// String returns a stable label for diagnostics and metrics.
func (p Priority) String() string {
	switch p {
	case PriorityLowest:
		return "lowest"
	case PriorityLower:
		return "lower"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityHigher:
		return "higher"
	default:
		return "unknown"
	}
}

// Task is a unit of work submitted without a result. The ctx it receives
// carries the owning executor's identity marker; closures that call back into
// the executor (Invoke, Yield, Future.Get) must pass it along so that
// worker-context detection works.
type Task func(ctx context.Context)

// =============================================================================
// task: internal queue entry
// =============================================================================

// task is the queue entry wrapping a submitted closure. It owns the closure
// exclusively until executed, and executes at most once: the worker loop and
// the inline deadlock-avoidance path may race for the same task, and the
// started flag decides the winner.
type task struct {
	priority Priority
	seq      uint64 // assigned by the queue at admission, orders equal priorities

	// run executes the closure and fulfills the future. Guarded by started.
	run func()

	// discard fulfills the future with ErrTaskDiscarded instead of running.
	// Used when the task is dropped by Clear or stranded at shutdown.
	discard func()

	started atomic.Bool
}

// tryStart claims the task for execution. Exactly one caller wins.
func (t *task) tryStart() bool {
	return t.started.CompareAndSwap(false, true)
}

// invoke runs the closure unless the task has already been claimed.
// Losing the race is not an error; it means someone else ran it.
func (t *task) invoke() {
	if t.tryStart() {
		t.run()
	}
}

// drop discards the task without running it, failing its future.
func (t *task) drop() {
	if t.tryStart() && t.discard != nil {
		t.discard()
	}
}
