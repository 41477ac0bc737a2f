package executor

import "github.com/playoutkit/go-executor/core"

// Re-export commonly used types from the core package for convenience.
// This allows users to import only the executor package for most use cases.

// Executor serializes submitted tasks onto one dedicated worker goroutine.
type Executor = core.Executor

// Task is a unit of work submitted without a result.
type Task = core.Task

// Priority governs extraction order from the executor's queue.
type Priority = core.Priority

// Future is the read half of a task's completion channel.
type Future[T any] = core.Future[T]

// Config holds construction options for an Executor.
type Config = core.Config

// ExecutorStats is a point-in-time observability snapshot.
type ExecutorStats = core.ExecutorStats

// TaskExecutionRecord captures a completed task execution event.
type TaskExecutionRecord = core.TaskExecutionRecord

// Logger is the pluggable diagnostics sink.
type Logger = core.Logger

// Field is a structured logging key-value pair.
type Field = core.Field

// Metrics is the pluggable metrics sink.
type Metrics = core.Metrics

// PanicHandler receives panics captured from task closures.
type PanicHandler = core.PanicHandler

// OverflowHandler observes submissions blocking on a full queue.
type OverflowHandler = core.OverflowHandler

// Priority constants, lowest to highest. PriorityNormal is the default.
const (
	PriorityLowest = core.PriorityLowest
	PriorityLower  = core.PriorityLower
	PriorityLow    = core.PriorityLow
	PriorityNormal = core.PriorityNormal
	PriorityHigh   = core.PriorityHigh
	PriorityHigher = core.PriorityHigher
)

// DefaultCapacity is the queue capacity used when none is configured.
const DefaultCapacity = core.DefaultCapacity

// Sentinel errors; match with errors.Is.
var (
	ErrNotRunning    = core.ErrNotRunning
	ErrQueueFull     = core.ErrQueueFull
	ErrNotOnWorker   = core.ErrNotOnWorker
	ErrTaskDiscarded = core.ErrTaskDiscarded
)

// Constructors and helpers.
var (
	New           = core.New
	NewWithConfig = core.NewWithConfig
	DefaultConfig = core.DefaultConfig
	FromContext   = core.FromContext
	F             = core.F
)
