package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRunning is returned by submission APIs after shutdown has been
	// requested. It is surfaced synchronously, before any task is queued.
	ErrNotRunning = errors.New("executor not running")

	// ErrQueueFull is returned by TryBeginInvoke when the queue is at
	// capacity. The task was not enqueued and no future exists for it.
	ErrQueueFull = errors.New("task queue full")

	// ErrNotOnWorker is returned by worker-only operations (Yield) when
	// called from a context that does not belong to the executor's worker.
	ErrNotOnWorker = errors.New("not on the executor's worker goroutine")

	// ErrTaskDiscarded fulfills the future of a task that was dropped by
	// Clear or left queued at shutdown. The closure never ran.
	ErrTaskDiscarded = errors.New("task discarded before execution")
)

// wrapErr tags an error with the executor's diagnostic name.
// The sentinel stays matchable with errors.Is.
func (e *Executor) wrapErr(err error) error {
	return fmt.Errorf("executor[%s]: %w", e.name, err)
}
