package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Executor serializes concurrently submitted tasks onto one dedicated worker
// goroutine, in priority order, over a bounded queue with backpressure.
//
// All tasks of one executor run strictly sequentially, so closures get
// implicit mutual exclusion over any state they share through it. Any number
// of producer goroutines may submit concurrently.
//
// An executor starts running at construction and stops exactly once; it
// cannot be restarted.
type Executor struct {
	name  string
	queue *BoundedQueue

	running atomic.Bool
	stopped chan struct{} // closed when the worker goroutine has exited

	// workerCtx carries the executor identity marker and is handed to every
	// task closure. IsCurrent compares against it.
	workerCtx context.Context

	logger          Logger
	metrics         Metrics
	panicHandler    PanicHandler
	overflowHandler OverflowHandler
	history         *executionHistory

	executed atomic.Int64
	panics   atomic.Int64
	blocked  atomic.Int64

	closeOnce sync.Once
}

// =============================================================================
// Construction
// =============================================================================

// New creates an executor with the default configuration and starts its
// worker goroutine. The name is diagnostic only; it tags errors, log lines
// and metrics.
func New(name string) *Executor {
	return NewWithConfig(name, DefaultConfig())
}

// NewWithConfig creates an executor with explicit collaborators and starts
// its worker goroutine. Nil collaborators fall back to defaults.
func NewWithConfig(name string, cfg *Config) *Executor {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	e := &Executor{
		name:            name,
		queue:           NewBoundedQueue(cfg.Capacity),
		stopped:         make(chan struct{}),
		logger:          cfg.Logger,
		metrics:         cfg.Metrics,
		panicHandler:    cfg.PanicHandler,
		overflowHandler: cfg.OverflowHandler,
		history:         newExecutionHistory(cfg.HistoryCapacity),
	}
	if e.logger == nil {
		e.logger = NewDefaultLogger()
	}
	if e.metrics == nil {
		e.metrics = &NilMetrics{}
	}
	if e.panicHandler == nil {
		e.panicHandler = &DefaultPanicHandler{}
	}
	if e.overflowHandler == nil {
		e.overflowHandler = &DefaultOverflowHandler{}
	}

	e.workerCtx = context.WithValue(context.Background(), executorKey, e)
	e.running.Store(true)
	go e.run()

	return e
}

// =============================================================================
// Worker identity
// =============================================================================

type executorKeyType struct{}

var executorKey executorKeyType

// FromContext returns the executor whose worker produced ctx, or nil.
func FromContext(ctx context.Context) *Executor {
	if v := ctx.Value(executorKey); v != nil {
		return v.(*Executor)
	}
	return nil
}

// IsCurrent reports whether ctx belongs to this executor's worker goroutine.
// It is the branch point for all deadlock avoidance: Invoke and Future.Get
// execute inline instead of blocking when it returns true.
func (e *Executor) IsCurrent(ctx context.Context) bool {
	return FromContext(ctx) == e
}

// =============================================================================
// Worker loop
// =============================================================================

// run is the worker goroutine. A task failure never terminates the loop;
// one dead worker would stall every future client of the executor.
func (e *Executor) run() {
	defer close(e.stopped)

	for e.running.Load() {
		t, ok := e.queue.Pop()
		if !ok {
			break
		}
		e.runTask(t)
	}

	// Stopped: discard whatever is still resident. Their futures fail with
	// ErrTaskDiscarded so no waiter blocks forever.
	e.queue.Close()
	for _, t := range e.queue.Drain() {
		e.dropTask(t)
	}
}

// runTask executes one popped task behind a catch-all boundary. The task's
// own wrapper captures failures into its future; anything escaping past that
// is reported and swallowed.
func (e *Executor) runTask(t *task) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("failure escaped task capture",
				F("executor", e.name), F("panic", r))
		}
	}()
	t.invoke()
}

// dropTask discards one task behind the same catch-all boundary.
func (e *Executor) dropTask(t *task) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("failure while discarding task",
				F("executor", e.name), F("panic", r))
		}
	}()
	t.drop()
}

// observe records one completed task execution.
func (e *Executor) observe(priority Priority, startedAt time.Time, failed, panicked bool) {
	finishedAt := time.Now()
	duration := finishedAt.Sub(startedAt)

	e.executed.Add(1)
	if panicked {
		e.panics.Add(1)
	}

	e.metrics.RecordTaskDuration(e.name, priority, duration)
	e.history.Add(TaskExecutionRecord{
		ExecutorName: e.name,
		Priority:     priority,
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
		Duration:     duration,
		Failed:       failed,
		Panicked:     panicked,
	})
}

// =============================================================================
// Lifecycle
// =============================================================================

// Stop requests shutdown and blocks until it takes effect. It synchronously
// invokes a closure that clears the running flag, queued at PriorityLowest so
// that every more urgent task admitted before the call completes first.
// Submissions made after Stop returns fail with ErrNotRunning.
//
// Calling Stop from one of the executor's own tasks is safe: the marker runs
// inline and the worker exits after the calling task returns.
func (e *Executor) Stop(ctx context.Context) error {
	_, err := Invoke(ctx, e, func(context.Context) (struct{}, error) {
		e.running.Store(false)
		return struct{}{}, nil
	}, PriorityLowest)
	return err
}

// Close shuts the executor down and joins the worker goroutine. It tolerates
// an executor that is already stopped and a shutdown marker lost to a
// concurrent Clear. Tasks still queued when the worker exits are discarded
// and their futures fail with ErrTaskDiscarded.
//
// Close is idempotent. When called from one of the executor's own tasks it
// does not join (the worker is busy running the caller); the worker exits
// once that task returns.
func (e *Executor) Close(ctx context.Context) error {
	var stopErr error
	e.closeOnce.Do(func() {
		stopErr = e.Stop(ctx)
		// Hard stop covers the path where the graceful marker was discarded
		// or the ctx gave up: clear the flag and wake a worker blocked in Pop.
		e.running.Store(false)
		e.queue.Close()
	})

	if !e.IsCurrent(ctx) {
		<-e.stopped
	}

	if stopErr != nil && !errors.Is(stopErr, ErrNotRunning) && !errors.Is(stopErr, ErrTaskDiscarded) {
		return stopErr
	}
	return nil
}

// Wait is a drain barrier: it synchronously invokes a no-op at
// PriorityLowest, so it returns only once every higher-priority task queued
// at call time has completed. It makes no promise about other lowest-priority
// tasks submitted concurrently.
func (e *Executor) Wait(ctx context.Context) error {
	_, err := Invoke(ctx, e, func(context.Context) (struct{}, error) {
		return struct{}{}, nil
	}, PriorityLowest)
	return err
}

// Yield opportunistically executes one pending task on the caller's stack.
// It may only be called from the executor's own worker context; tasks blocked
// on some condition use it to keep the queue moving. It is a no-op when the
// queue is empty.
func (e *Executor) Yield(ctx context.Context) error {
	if !e.IsCurrent(ctx) {
		return e.wrapErr(ErrNotOnWorker)
	}
	if t, ok := e.queue.TryPop(); ok {
		e.runTask(t)
	}
	return nil
}

// Clear drains and discards all currently queued tasks without executing
// them. Their futures fail with ErrTaskDiscarded. Safe to call concurrently
// with submission.
func (e *Executor) Clear() {
	for _, t := range e.queue.Drain() {
		e.dropTask(t)
	}
}

// =============================================================================
// Introspection
// =============================================================================

// Name returns the diagnostic name.
func (e *Executor) Name() string { return e.name }

// Len returns the number of queued tasks.
func (e *Executor) Len() int { return e.queue.Len() }

// Capacity returns the queue's current capacity bound.
func (e *Executor) Capacity() int { return e.queue.Cap() }

// SetCapacity changes the queue's capacity bound; it affects future pushes only.
func (e *Executor) SetCapacity(capacity int) { e.queue.SetCapacity(capacity) }

// IsRunning reports whether the executor still accepts submissions.
func (e *Executor) IsRunning() bool { return e.running.Load() }

// Stats returns a point-in-time observability snapshot.
func (e *Executor) Stats() ExecutorStats {
	return ExecutorStats{
		Name:     e.name,
		Pending:  e.queue.Len(),
		Capacity: e.queue.Cap(),
		Running:  e.running.Load(),
		Executed: e.executed.Load(),
		Panics:   e.panics.Load(),
		Blocked:  e.blocked.Load(),
	}
}

// History returns the retained execution records, oldest first.
func (e *Executor) History() []TaskExecutionRecord {
	return e.history.Snapshot()
}
