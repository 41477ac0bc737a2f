package core

import (
	"fmt"
	"time"
)

// =============================================================================
// PanicHandler: Interface for handling task panics
// =============================================================================

// PanicHandler is called when a task panics during execution. The panic never
// propagates past the executor: it is captured into the task's future and
// reported here, and the worker moves on to the next task.
//
// Implementations must be thread-safe; the inline deadlock-avoidance path can
// run tasks off the worker goroutine.
type PanicHandler interface {
	// HandlePanic is called with the executor's diagnostic name, the panic
	// value recovered from the task, and the stack trace at the time of panic.
	HandlePanic(executorName string, panicInfo any, stackTrace []byte)
}

// DefaultPanicHandler provides a basic panic handler that logs to stdout.
type DefaultPanicHandler struct{}

// HandlePanic prints panic information to stdout.
func (h *DefaultPanicHandler) HandlePanic(executorName string, panicInfo any, stackTrace []byte) {
	fmt.Printf("[executor %s] Task panic: %v\nStack trace:\n%s",
		executorName, panicInfo, stackTrace)
}

// =============================================================================
// Metrics: Interface for observability and monitoring
// =============================================================================

// Metrics defines the interface for collecting task execution metrics.
// Implementations can send metrics to monitoring systems (Prometheus, StatsD, etc.).
//
// Methods should be non-blocking and fast to avoid impacting task execution
// performance.
type Metrics interface {
	// RecordTaskDuration records how long a task took to execute.
	RecordTaskDuration(executorName string, priority Priority, duration time.Duration)

	// RecordTaskPanic records that a task panicked during execution.
	RecordTaskPanic(executorName string, panicInfo any)

	// RecordQueueDepth records the current queue depth. Called after every
	// admission and by periodic pollers.
	RecordQueueDepth(executorName string, depth int)

	// RecordOverflowBlock records that a submission found the queue at
	// capacity and is about to block its caller.
	RecordOverflowBlock(executorName string)
}

// NilMetrics provides a no-op metrics implementation that does nothing.
// This is the default when no metrics interface is provided.
type NilMetrics struct{}

// RecordTaskDuration is a no-op.
func (m *NilMetrics) RecordTaskDuration(executorName string, priority Priority, duration time.Duration) {
}

// RecordTaskPanic is a no-op.
func (m *NilMetrics) RecordTaskPanic(executorName string, panicInfo any) {
}

// RecordQueueDepth is a no-op.
func (m *NilMetrics) RecordQueueDepth(executorName string, depth int) {
}

// RecordOverflowBlock is a no-op.
func (m *NilMetrics) RecordOverflowBlock(executorName string) {
}

// =============================================================================
// OverflowHandler: Interface for observing backpressure events
// =============================================================================

// OverflowHandler is called when a blocking submission finds the queue at
// capacity, just before the caller blocks. The executor never rejects a
// blocking submission; this hook exists so operators can see sustained
// backpressure.
//
// Implementations must be thread-safe.
type OverflowHandler interface {
	// HandleOverflow receives the executor's diagnostic name and the queue
	// depth observed at the time of the overflow.
	HandleOverflow(executorName string, pending int)
}

// DefaultOverflowHandler provides a basic handler that logs overflow events.
type DefaultOverflowHandler struct{}

// HandleOverflow logs the overflow event.
func (h *DefaultOverflowHandler) HandleOverflow(executorName string, pending int) {
	fmt.Printf("[executor %s] Queue overflow, blocking caller (pending=%d)\n", executorName, pending)
}

// =============================================================================
// Config: Configuration for Executor
// =============================================================================

// Config holds construction options for an Executor. All collaborators are
// optional; missing ones get default implementations.
type Config struct {
	// Capacity bounds the task queue. Defaults to DefaultCapacity.
	Capacity int

	// Logger receives the executor's diagnostics. Defaults to DefaultLogger.
	Logger Logger

	// Metrics records task execution metrics. Defaults to NilMetrics.
	Metrics Metrics

	// PanicHandler is called when a task panics. Defaults to DefaultPanicHandler.
	PanicHandler PanicHandler

	// OverflowHandler is called when a blocking submission hits a full queue.
	// Defaults to DefaultOverflowHandler.
	OverflowHandler OverflowHandler

	// HistoryCapacity sizes the execution-history ring buffer.
	// Zero means the default; negative disables history.
	HistoryCapacity int
}

// DefaultConfig returns a config with default collaborators.
func DefaultConfig() *Config {
	return &Config{
		Capacity:        DefaultCapacity,
		Logger:          NewDefaultLogger(),
		Metrics:         &NilMetrics{},
		PanicHandler:    &DefaultPanicHandler{},
		OverflowHandler: &DefaultOverflowHandler{},
	}
}
