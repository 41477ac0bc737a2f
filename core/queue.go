package core

import (
	"container/heap"
	"sync"
)

// DefaultCapacity is the queue capacity used when none is configured.
const DefaultCapacity = 512

// =============================================================================
// taskHeap: max-priority heap with FIFO stability for equal priorities
// =============================================================================

type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

// Less implements extraction order: highest priority first, then smallest
// admission sequence first (FIFO within a priority level).
func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority > h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *taskHeap) Push(x interface{}) {
	*h = append(*h, x.(*task))
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil // Avoid memory leak
	*h = old[0 : n-1]
	return item
}

// =============================================================================
// BoundedQueue: blocking bounded priority queue
// =============================================================================

// BoundedQueue is a thread-safe priority queue of tasks with a capacity bound.
// Push blocks while the queue is full and Pop blocks while it is empty;
// TryPush and TryPop are the non-blocking variants. Capacity is mutable at
// runtime and only affects future pushes.
//
// Closing the queue releases all blocked callers: blocked pushes fail and
// blocked pops return ok=false. Elements still queued at close time stay in
// the queue until drained.
type BoundedQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    taskHeap
	capacity int
	nextSeq  uint64
	closed   bool
}

// NewBoundedQueue creates a queue with the given capacity.
// A capacity <= 0 means DefaultCapacity.
func NewBoundedQueue(capacity int) *BoundedQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q := &BoundedQueue{
		items:    make(taskHeap, 0, defaultHeapCap),
		capacity: capacity,
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

const defaultHeapCap = 16

// Push inserts the task, blocking the caller while the queue is at capacity.
// It returns false only if the queue was closed before space became available.
func (q *BoundedQueue) Push(t *task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return false
	}

	q.pushLocked(t)
	return true
}

// TryPush inserts the task if capacity allows immediately. It returns false
// without blocking or mutating the queue when full or closed.
func (q *BoundedQueue) TryPush(t *task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.items) >= q.capacity {
		return false
	}

	q.pushLocked(t)
	return true
}

func (q *BoundedQueue) pushLocked(t *task) {
	t.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.items, t)
	q.notEmpty.Signal()
}

// Pop removes and returns the highest-priority task, blocking while the queue
// is empty. It returns ok=false once the queue is closed.
func (q *BoundedQueue) Pop() (*task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.closed {
		return nil, false
	}

	return q.popLocked(), true
}

// TryPop removes and returns the highest-priority task if one is present,
// without blocking.
func (q *BoundedQueue) TryPop() (*task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}
	return q.popLocked(), true
}

func (q *BoundedQueue) popLocked() *task {
	item := heap.Pop(&q.items).(*task)
	q.notFull.Signal()
	return item
}

// Len returns the number of queued tasks.
func (q *BoundedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the current capacity bound.
func (q *BoundedQueue) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// SetCapacity changes the capacity bound. It affects future pushes only;
// tasks already queued beyond a lowered bound stay queued. Growing the bound
// releases callers blocked in Push.
func (q *BoundedQueue) SetCapacity(capacity int) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.capacity = capacity
	q.notFull.Broadcast()
}

// Drain removes and returns all queued tasks without running them.
// It works on a closed queue, and releases callers blocked in Push.
func (q *BoundedQueue) Drain() []*task {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil
	}

	drained := make([]*task, 0, len(q.items))
	for len(q.items) > 0 {
		drained = append(drained, heap.Pop(&q.items).(*task))
	}
	q.items = make(taskHeap, 0, defaultHeapCap)
	q.notFull.Broadcast()
	return drained
}

// Close marks the queue closed and wakes every blocked caller.
// Subsequent pushes fail and pops return ok=false.
func (q *BoundedQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}
