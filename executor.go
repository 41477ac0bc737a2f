package executor

import (
	"context"

	"github.com/playoutkit/go-executor/core"
)

// BeginInvoke enqueues fn at the given priority and returns a Future for its
// result. It blocks the caller while the queue is full. See core.BeginInvoke.
func BeginInvoke[T any](e *Executor, fn func(ctx context.Context) (T, error), priority Priority) (*Future[T], error) {
	return core.BeginInvoke(e, fn, priority)
}

// TryBeginInvoke is the non-blocking variant of BeginInvoke; it returns
// ErrQueueFull when the queue is at capacity. See core.TryBeginInvoke.
func TryBeginInvoke[T any](e *Executor, fn func(ctx context.Context) (T, error), priority Priority) (*Future[T], error) {
	return core.TryBeginInvoke(e, fn, priority)
}

// Invoke runs fn on the executor and blocks until its result is available,
// executing inline when called from the executor's own worker context.
// See core.Invoke.
func Invoke[T any](ctx context.Context, e *Executor, fn func(ctx context.Context) (T, error), priority Priority) (T, error) {
	return core.Invoke(ctx, e, fn, priority)
}
