package core

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"
)

// =============================================================================
// Submission: BeginInvoke / TryBeginInvoke / Invoke
// =============================================================================

// BeginInvoke enqueues fn at the given priority and returns a Future for its
// result. It fails with ErrNotRunning after shutdown has been requested.
//
// If the queue is at capacity the calling goroutine blocks until space frees
// (backpressure); the overflow is reported once through the logger, metrics
// and overflow handler before blocking.
func BeginInvoke[T any](e *Executor, fn func(ctx context.Context) (T, error), priority Priority) (*Future[T], error) {
	return internalBeginInvoke(e, fn, priority, false)
}

// TryBeginInvoke is the best-effort variant of BeginInvoke: when the queue is
// at capacity it returns ErrQueueFull immediately instead of blocking, and no
// task is enqueued.
func TryBeginInvoke[T any](e *Executor, fn func(ctx context.Context) (T, error), priority Priority) (*Future[T], error) {
	return internalBeginInvoke(e, fn, priority, true)
}

// Invoke runs fn on the executor and blocks until its result is available.
//
// Called from the executor's own worker context it executes fn inline
// immediately, skipping the queue; this is what lets a task synchronously
// invoke another task on its own executor without deadlocking. From any other
// goroutine it is BeginInvoke followed by Future.Get.
func Invoke[T any](ctx context.Context, e *Executor, fn func(ctx context.Context) (T, error), priority Priority) (T, error) {
	if e.IsCurrent(ctx) {
		val, err, _ := callGuarded(e, fn)
		return val, err
	}

	f, err := BeginInvoke(e, fn, priority)
	if err != nil {
		var zero T
		return zero, err
	}
	return f.Get(ctx)
}

func internalBeginInvoke[T any](e *Executor, fn func(ctx context.Context) (T, error), priority Priority, tryBegin bool) (*Future[T], error) {
	if !e.IsRunning() {
		return nil, e.wrapErr(ErrNotRunning)
	}

	f := newFuture[T](e)
	t := &task{priority: priority}
	t.run = func() {
		startedAt := time.Now()
		val, err, panicked := callGuarded(e, fn)
		f.complete(val, err)
		e.observe(priority, startedAt, err != nil, panicked)
	}
	t.discard = func() {
		var zero T
		f.complete(zero, e.wrapErr(ErrTaskDiscarded))
	}
	f.task = t

	if !e.queue.TryPush(t) {
		if tryBegin {
			return nil, e.wrapErr(ErrQueueFull)
		}

		pending := e.queue.Len()
		e.logger.Debug("queue overflow, blocking caller",
			F("executor", e.name), F("pending", pending))
		e.blocked.Add(1)
		e.metrics.RecordOverflowBlock(e.name)
		e.overflowHandler.HandleOverflow(e.name, pending)

		if !e.queue.Push(t) {
			// Queue closed while the caller was blocked.
			return nil, e.wrapErr(ErrNotRunning)
		}
	}

	e.metrics.RecordQueueDepth(e.name, e.queue.Len())
	return f, nil
}

// callGuarded runs fn with the worker context, converting a panic into an
// error and routing it to the panic handler. The panic never propagates.
func callGuarded[T any](e *Executor, fn func(ctx context.Context) (T, error)) (val T, err error, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			err = fmt.Errorf("task panicked: %v", r)
			e.metrics.RecordTaskPanic(e.name, r)
			e.panicHandler.HandlePanic(e.name, r, debug.Stack())
		}
	}()
	val, err = fn(e.workerCtx)
	return
}

// =============================================================================
// Fire-and-forget submission
// =============================================================================

// Post enqueues fn at PriorityNormal without a result. The returned error is
// the synchronous submission error only; a failure inside fn is reported
// through the panic handler and lost otherwise.
func (e *Executor) Post(fn Task) error {
	return e.PostWithPriority(fn, PriorityNormal)
}

// PostWithPriority enqueues fn at the given priority without a result.
func (e *Executor) PostWithPriority(fn Task, priority Priority) error {
	_, err := BeginInvoke(e, func(ctx context.Context) (struct{}, error) {
		fn(ctx)
		return struct{}{}, nil
	}, priority)
	return err
}
