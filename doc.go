// Package executor provides a single-worker-goroutine task executor with
// priority scheduling, bounded queuing and futures.
//
// An Executor owns one dedicated goroutine that runs every submitted closure
// strictly sequentially, highest priority first. Components of a pipeline
// hand it closures to run "on my goroutine" and get back a Future
// representing eventual completion; because no two tasks of one executor
// ever run concurrently, closures get implicit mutual exclusion over any
// state they share through it.
//
// # Quick start
//
//	exec := executor.New("mixer")
//	defer exec.Close(context.Background())
//
//	f, err := executor.BeginInvoke(exec, func(ctx context.Context) (int, error) {
//	    return render(), nil
//	}, executor.PriorityNormal)
//	if err != nil {
//	    // executor already stopped
//	}
//	frame, err := f.Get(context.Background())
//
// # Backpressure
//
// The queue is bounded (512 tasks by default, adjustable with SetCapacity).
// BeginInvoke blocks the submitting goroutine while the queue is full;
// TryBeginInvoke returns ErrQueueFull instead of blocking.
//
// # Deadlock avoidance
//
// A task that synchronously waits for another task on its own executor would
// deadlock a naive implementation. Here, Invoke and Future.Get detect --
// through the ctx handed to every task closure -- that the caller already is
// the worker, and run the awaited task inline on the caller's stack instead
// of blocking. Always propagate the task's ctx into these calls.
//
// # Shutdown
//
// Stop drains all work more urgent than the lowest priority, then stops the
// worker. Close additionally joins the worker goroutine and fails the
// futures of any tasks left in the queue with ErrTaskDiscarded. An executor
// cannot be restarted.
package executor
