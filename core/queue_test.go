package core

import (
	"testing"
	"time"
)

func noopTask(priority Priority) *task {
	return &task{priority: priority, run: func() {}}
}

// TestBoundedQueue_PriorityOrder verifies priority-based extraction
// Given: a queue with mixed-priority tasks
// When: tasks are popped
// Then: they come out highest priority first, FIFO within a priority level
func TestBoundedQueue_PriorityOrder(t *testing.T) {
	// Arrange
	q := NewBoundedQueue(16)

	// Act - Push tasks with mixed priorities
	q.TryPush(noopTask(PriorityLow))    // Low 1
	q.TryPush(noopTask(PriorityHigher)) // High 1
	q.TryPush(noopTask(PriorityLow))    // Low 2
	q.TryPush(noopTask(PriorityHigher)) // High 2
	q.TryPush(noopTask(PriorityNormal)) // Medium

	expected := []Priority{
		PriorityHigher,
		PriorityHigher,
		PriorityNormal,
		PriorityLow,
		PriorityLow,
	}

	// Assert - Verify extraction order
	for i, want := range expected {
		item, ok := q.TryPop()
		if !ok {
			t.Fatalf("Step %d: queue is empty, want priority %v", i, want)
		}
		if item.priority != want {
			t.Errorf("Step %d: priority = %v, want %v", i, item.priority, want)
		}
	}
}

// TestBoundedQueue_TryPushAtCapacity verifies the non-blocking full-queue path
// Given: a queue filled to capacity
// When: TryPush is called
// Then: it returns false and the queue size is unchanged
func TestBoundedQueue_TryPushAtCapacity(t *testing.T) {
	q := NewBoundedQueue(2)

	if !q.TryPush(noopTask(PriorityNormal)) {
		t.Fatal("TryPush 1 = false, want true")
	}
	if !q.TryPush(noopTask(PriorityNormal)) {
		t.Fatal("TryPush 2 = false, want true")
	}

	if q.TryPush(noopTask(PriorityNormal)) {
		t.Error("TryPush at capacity = true, want false")
	}
	if q.Len() != 2 {
		t.Errorf("q.Len() = %d, want 2", q.Len())
	}
}

// TestBoundedQueue_PushBlocksUntilPop verifies blocking push backpressure
// Given: a queue filled to capacity
// When: Push is called from another goroutine
// Then: it blocks until a Pop frees space, then succeeds
func TestBoundedQueue_PushBlocksUntilPop(t *testing.T) {
	q := NewBoundedQueue(1)
	q.TryPush(noopTask(PriorityNormal))

	pushed := make(chan bool, 1)
	go func() {
		pushed <- q.Push(noopTask(PriorityHigh))
	}()

	// Assert - Push has not completed while the queue is full
	select {
	case <-pushed:
		t.Fatal("Push returned while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	// Act - Free one slot
	if _, ok := q.TryPop(); !ok {
		t.Fatal("TryPop = false, want true")
	}

	// Assert - Push completes
	select {
	case ok := <-pushed:
		if !ok {
			t.Error("Push = false, want true")
		}
	case <-time.After(time.Second):
		t.Fatal("Push still blocked after space freed")
	}
}

// TestBoundedQueue_PopBlocksUntilPush verifies blocking pop
// Given: an empty queue
// When: Pop is called from another goroutine
// Then: it blocks until a task is pushed
func TestBoundedQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewBoundedQueue(4)

	popped := make(chan *task, 1)
	go func() {
		item, _ := q.Pop()
		popped <- item
	}()

	select {
	case <-popped:
		t.Fatal("Pop returned on an empty queue")
	case <-time.After(50 * time.Millisecond):
	}

	q.TryPush(noopTask(PriorityHigh))

	select {
	case item := <-popped:
		if item == nil || item.priority != PriorityHigh {
			t.Errorf("popped priority = %v, want %v", item.priority, PriorityHigh)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop still blocked after push")
	}
}

// TestBoundedQueue_SetCapacityReleasesBlockedPush verifies runtime capacity growth
// Given: a pusher blocked on a full queue
// When: SetCapacity grows the bound
// Then: the blocked push completes without a pop
func TestBoundedQueue_SetCapacityReleasesBlockedPush(t *testing.T) {
	q := NewBoundedQueue(1)
	q.TryPush(noopTask(PriorityNormal))

	pushed := make(chan bool, 1)
	go func() {
		pushed <- q.Push(noopTask(PriorityNormal))
	}()

	select {
	case <-pushed:
		t.Fatal("Push returned while queue was full")
	case <-time.After(50 * time.Millisecond):
	}

	q.SetCapacity(2)

	select {
	case ok := <-pushed:
		if !ok {
			t.Error("Push = false, want true")
		}
	case <-time.After(time.Second):
		t.Fatal("Push still blocked after capacity grew")
	}

	if q.Len() != 2 {
		t.Errorf("q.Len() = %d, want 2", q.Len())
	}
}

// TestBoundedQueue_Drain verifies bulk removal without execution
// Given: a queue with several tasks
// When: Drain is called
// Then: all tasks are returned in priority order and the queue is empty
func TestBoundedQueue_Drain(t *testing.T) {
	q := NewBoundedQueue(8)
	q.TryPush(noopTask(PriorityLow))
	q.TryPush(noopTask(PriorityHigher))
	q.TryPush(noopTask(PriorityNormal))

	drained := q.Drain()

	if len(drained) != 3 {
		t.Fatalf("len(drained) = %d, want 3", len(drained))
	}
	if drained[0].priority != PriorityHigher {
		t.Errorf("drained[0].priority = %v, want %v", drained[0].priority, PriorityHigher)
	}
	if q.Len() != 0 {
		t.Errorf("q.Len() after Drain = %d, want 0", q.Len())
	}
	if q.Drain() != nil {
		t.Error("Drain on empty queue != nil, want nil")
	}
}

// TestBoundedQueue_CloseWakesBlockedCallers verifies shutdown wakeup
// Given: goroutines blocked in Pop and Push
// When: Close is called
// Then: Pop returns ok=false and Push returns false
func TestBoundedQueue_CloseWakesBlockedCallers(t *testing.T) {
	q := NewBoundedQueue(1)
	q.TryPush(noopTask(PriorityNormal))

	popResult := make(chan bool, 1)
	pushResult := make(chan bool, 1)

	emptyQ := NewBoundedQueue(1)
	go func() {
		_, ok := emptyQ.Pop()
		popResult <- ok
	}()
	go func() {
		pushResult <- q.Push(noopTask(PriorityNormal))
	}()

	time.Sleep(50 * time.Millisecond)
	emptyQ.Close()
	q.Close()

	select {
	case ok := <-popResult:
		if ok {
			t.Error("Pop on closed queue ok = true, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("Pop still blocked after Close")
	}

	select {
	case ok := <-pushResult:
		if ok {
			t.Error("Push on closed queue = true, want false")
		}
	case <-time.After(time.Second):
		t.Fatal("Push still blocked after Close")
	}

	// Elements resident at close time remain drainable.
	if got := len(q.Drain()); got != 1 {
		t.Errorf("len(Drain()) after Close = %d, want 1", got)
	}
}
