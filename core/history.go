package core

import (
	"sync"
)

const defaultHistoryCapacity = 100

// executionHistory is a fixed-size ring buffer of the most recent task
// execution records. A zero-capacity history drops everything.
type executionHistory struct {
	mu    sync.Mutex
	items []TaskExecutionRecord
	head  int
	count int
}

func newExecutionHistory(capacity int) *executionHistory {
	if capacity == 0 {
		capacity = defaultHistoryCapacity
	}
	if capacity < 0 {
		capacity = 0
	}
	return &executionHistory{items: make([]TaskExecutionRecord, capacity)}
}

func (h *executionHistory) Add(record TaskExecutionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.items) == 0 {
		return
	}

	h.items[h.head] = record
	h.head = (h.head + 1) % len(h.items)
	if h.count < len(h.items) {
		h.count++
	}
}

// Snapshot returns the retained records, oldest first.
func (h *executionHistory) Snapshot() []TaskExecutionRecord {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.count == 0 {
		return nil
	}

	out := make([]TaskExecutionRecord, h.count)
	start := (h.head - h.count + len(h.items)) % len(h.items)
	for i := 0; i < h.count; i++ {
		out[i] = h.items[(start+i)%len(h.items)]
	}
	return out
}
