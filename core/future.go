package core

import (
	"context"
)

// =============================================================================
// Future: one-shot completion channel
// =============================================================================

// Future is the read half of a task's completion channel. It is fulfilled
// exactly once, with the closure's value, the closure's error, a captured
// panic converted to an error, or ErrTaskDiscarded if the task was dropped
// without running.
//
// A Future is only fulfilled by the executor; callers observe it through Get,
// Done and Ready.
type Future[T any] struct {
	owner *Executor
	task  *task

	val  T
	err  error
	done chan struct{}
}

func newFuture[T any](e *Executor) *Future[T] {
	return &Future[T]{
		owner: e,
		done:  make(chan struct{}),
	}
}

// complete fulfills the future. It is called exactly once, sequenced by the
// task's started flag; val and err are published by the close of done.
func (f *Future[T]) complete(val T, err error) {
	f.val = val
	f.err = err
	close(f.done)
}

// Done returns a channel that is closed when the future is fulfilled.
// It is intended for use in select statements.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Ready reports whether the future has been fulfilled, without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get blocks until the future is fulfilled, then returns the task's result or
// error. A context cancellation unblocks the caller without affecting the
// task.
//
// Deadlock avoidance: when ctx belongs to the owning executor's worker
// goroutine (a task waiting on another task of the same executor), Get runs
// the pending task body inline instead of blocking on the worker it is
// already occupying. The at-most-once guard absorbs the race against the
// worker loop popping the same task.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	if f.task != nil && f.owner != nil && f.owner.IsCurrent(ctx) {
		f.task.invoke()
	}

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
