package transport

import "sync/atomic"

// node is a single Queue link. Nodes are allocated by producers on
// Enqueue and become garbage once the consumer moves past them.
type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
}

// Queue is an unbounded lock-free multi-producer/single-consumer queue
// (Vyukov intrusive MPSC design). Any number of threads may Enqueue
// concurrently; exactly one thread may call TryDequeue.
//
// Ordering is FIFO per producer. Items from distinct producers are
// observed in arrival order as seen by the consumer; no total order
// across producers is defined.
//
// Enqueue allocates one node on the producer side. TryDequeue never
// blocks and never allocates, which is what makes it safe to call from
// the audio thread.
type Queue[T any] struct {
	head atomic.Pointer[node[T]] // producers swap in new nodes here
	tail *node[T]                // consumer-owned; always points at a stub
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	stub := &node[T]{}
	q := &Queue[T]{tail: stub}
	q.head.Store(stub)
	return q
}

// Enqueue appends v to the queue. Callable from any thread; never fails
// and never blocks.
func (q *Queue[T]) Enqueue(v T) {
	n := &node[T]{value: v}
	prev := q.head.Swap(n)
	// Between the swap above and the store below the queue is briefly
	// disconnected; the consumer sees it as empty until the link lands.
	prev.next.Store(n)
}

// TryDequeue removes and returns the oldest available item. The second
// return value is false when no item is available. Consumer side only;
// never blocks.
func (q *Queue[T]) TryDequeue() (T, bool) {
	var zero T

	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}

	q.tail = next
	v := next.value
	next.value = zero // release the payload for GC

	return v, true
}
