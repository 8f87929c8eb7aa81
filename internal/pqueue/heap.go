// Package pqueue implements the timestamp min-heap (component G): a
// fixed-capacity binary min-heap of (timestamp, instruction-id) entries
// used by the waitlist and random schedulers. Grounded on
// newbpydev-bubblyui/pkg/core/update_queue.go's updatePriorityQueue, which
// implements the same container/heap.Interface shape (index-tracking
// Push/Pop/Swap/Less) for a different priority queue.
package pqueue

import (
	"container/heap"
	"fmt"
)

type entry struct {
	ts    int64
	value string
	index int
}

// innerHeap implements heap.Interface over *entry.
type innerHeap []*entry

func (h innerHeap) Len() int { return len(h) }

// Less orders by timestamp ascending: the minimum (earliest-eligible)
// entry sits at the root.
func (h innerHeap) Less(i, j int) bool { return h[i].ts < h[j].ts }

func (h innerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *innerHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *innerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// NowFunc returns the current time as a millisecond epoch. Injected so the
// heap and its callers don't depend on a concrete time source (spec.md
// §1's "time source" is an external collaborator).
type NowFunc func() int64

// Heap is a fixed-capacity timestamp min-heap keyed by next-eligible
// epoch, storing instruction-id values (component G).
type Heap struct {
	h        innerHeap
	byValue  map[string]*entry
	capacity int
	now      NowFunc
}

// New creates an empty heap with the given fixed capacity.
func New(capacity int, now NowFunc) *Heap {
	return &Heap{
		byValue:  make(map[string]*entry, capacity),
		capacity: capacity,
		now:      now,
	}
}

// Push inserts a new (timestamp, value) entry. Fails if the heap is
// already at capacity.
func (q *Heap) Push(ts int64, value string) error {
	if len(q.h) >= q.capacity {
		return fmt.Errorf("pqueue: heap overflow: capacity %d reached", q.capacity)
	}
	e := &entry{ts: ts, value: value}
	heap.Push(&q.h, e)
	q.byValue[value] = e
	return nil
}

// PeekValue returns the value at the root (the earliest-eligible member).
// Undefined (returns the zero value) on an empty heap.
func (q *Heap) PeekValue() string {
	if len(q.h) == 0 {
		return ""
	}
	return q.h[0].value
}

// CanPop reports whether the heap is non-empty and the root's timestamp
// has come due: now() >= root.ts. Per spec.md §4.G/§9, this must use >=,
// not the reference source's apparent-bug <=.
func (q *Heap) CanPop() bool {
	if len(q.h) == 0 {
		return false
	}
	return q.now() >= q.h[0].ts
}

// Pop re-keys the root with newTS and sifts it back into place, returning
// the value that was at the root before the re-key. The heap never loses
// members this way: cooldown is "re-push with a future timestamp",
// applied atomically, so Size() is constant across a scheduler's lifetime.
func (q *Heap) Pop(newTS int64) string {
	if len(q.h) == 0 {
		return ""
	}
	root := q.h[0]
	value := root.value
	root.ts = newTS
	heap.Fix(&q.h, 0)
	return value
}

// Contains reports whether value currently has an entry in the heap.
func (q *Heap) Contains(value string) bool {
	_, ok := q.byValue[value]
	return ok
}

// Size returns the number of entries currently in the heap.
func (q *Heap) Size() int {
	return len(q.h)
}
