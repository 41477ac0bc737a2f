package core

import "time"

// TaskExecutionRecord captures a completed task execution event.
type TaskExecutionRecord struct {
	ExecutorName string
	Priority     Priority
	StartedAt    time.Time
	FinishedAt   time.Time
	Duration     time.Duration
	Failed       bool
	Panicked     bool
}

// ExecutorStats represents runtime observability state for an executor.
type ExecutorStats struct {
	Name     string
	Pending  int
	Capacity int
	Running  bool

	Executed int64
	Panics   int64
	Blocked  int64 // submissions that hit backpressure and blocked
}
