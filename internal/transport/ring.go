// Package transport implements the lock-free primitives that move data
// between the audio-processing thread and everything else.
//
// Two structures are provided:
//
//   - [Ring]: a single-producer/single-consumer ring buffer for sample
//     frames. One fixed writer thread (e.g. the capture callback) and one
//     fixed reader thread (the processing loop) may operate concurrently
//     without locks.
//   - [Queue]: a multi-producer/single-consumer queue for control commands.
//     Any thread may enqueue; only the audio thread dequeues.
//
// Neither structure ever blocks. Ring overflow follows a drop-newest
// policy: samples that do not fit are discarded (and counted), buffered
// unread data is never overwritten. Queue growth is unbounded; commands
// are small and infrequent relative to the sample stream, so unbounded
// growth under a stalled consumer is an accepted tradeoff.
package transport

import (
	"errors"
	"fmt"
	"math/bits"
	"sync/atomic"
)

// ErrInvalidCapacity indicates a non-positive requested ring capacity.
var ErrInvalidCapacity = errors.New("invalid ring capacity")

// Ring is a lock-free single-producer/single-consumer ring buffer.
//
// The writer and reader roles are fixed for the lifetime of the Ring:
// exactly one thread may call Write, exactly one thread may call Read and
// Skip. Calling either from additional threads is unsupported.
//
// The cursor protocol guarantees a happens-before relationship between
// data and index: the writer stores the sample data first and publishes
// the write cursor after, so a reader that observes an advanced cursor
// also observes the data behind it. Go's sync/atomic operations are
// sequentially consistent, which is strictly stronger than the
// release/acquire ordering this requires.
type Ring[T any] struct {
	buf  []T
	mask uint64

	// Cursors increase monotonically and are reduced modulo capacity by
	// masking only when indexing the buffer. write-read is therefore the
	// exact number of unread elements.
	write   atomic.Uint64
	read    atomic.Uint64
	dropped atomic.Uint64
}

// NewRing creates a ring buffer holding at least requestedCapacity
// elements. The actual capacity is the smallest power of two greater than
// or equal to the request, so that index arithmetic reduces to masking.
func NewRing[T any](requestedCapacity int) (*Ring[T], error) {
	if requestedCapacity <= 0 {
		return nil, fmt.Errorf("%w: %d (must be positive)", ErrInvalidCapacity, requestedCapacity)
	}

	capacity := nextPowerOfTwo(requestedCapacity)

	return &Ring[T]{
		buf:  make([]T, capacity),
		mask: uint64(capacity - 1),
	}, nil
}

// nextPowerOfTwo returns the smallest power of two >= n for n >= 1.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// Capacity returns the rounded-up capacity in elements.
func (r *Ring[T]) Capacity() int {
	return len(r.buf)
}

// Len returns the number of elements available to read, clamped to
// [0, capacity]. Safe to call from either side.
func (r *Ring[T]) Len() int {
	used := r.write.Load() - r.read.Load()
	if used > uint64(len(r.buf)) {
		used = uint64(len(r.buf))
	}
	return int(used)
}

// Write copies as many elements from src as fit into free space and
// returns the count written. Elements that do not fit are dropped and
// counted; buffered unread data is never overwritten. Writer side only.
// Never blocks.
func (r *Ring[T]) Write(src []T) int {
	w := r.write.Load()
	free := uint64(len(r.buf)) - (w - r.read.Load())

	n := uint64(len(src))
	if n > free {
		r.dropped.Add(n - free)
		n = free
	}
	if n == 0 {
		return 0
	}

	start := w & r.mask
	first := uint64(len(r.buf)) - start
	if first > n {
		first = n
	}
	copy(r.buf[start:start+first], src[:first])
	copy(r.buf, src[first:n])

	// Publish the cursor only after the data is in place.
	r.write.Store(w + n)

	return int(n)
}

// Read copies up to len(dst) available elements into dst and returns the
// count copied. Returns 0 on an empty ring. Reader side only. Never
// blocks.
func (r *Ring[T]) Read(dst []T) int {
	rd := r.read.Load()
	avail := r.write.Load() - rd

	n := uint64(len(dst))
	if n > avail {
		n = avail
	}
	if n == 0 {
		return 0
	}

	start := rd & r.mask
	first := uint64(len(r.buf)) - start
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[start:start+first])
	copy(dst[first:n], r.buf)

	r.read.Store(rd + n)

	return int(n)
}

// Skip advances the read cursor by up to n elements without copying,
// discarding stale backlog (e.g. after a device dropout). Returns the
// count skipped. Reader side only.
func (r *Ring[T]) Skip(n int) int {
	if n <= 0 {
		return 0
	}

	rd := r.read.Load()
	avail := r.write.Load() - rd

	skip := uint64(n)
	if skip > avail {
		skip = avail
	}
	r.read.Store(rd + skip)

	return int(skip)
}

// Clear resets both cursors and the dropped counter. The caller must
// guarantee no concurrent writer or reader activity during the call;
// Clear is not synchronized against them.
func (r *Ring[T]) Clear() {
	r.write.Store(0)
	r.read.Store(0)
	r.dropped.Store(0)
}

// Dropped returns the total number of elements discarded by Write since
// creation (or the last Clear). Safe to call from any thread.
func (r *Ring[T]) Dropped() uint64 {
	return r.dropped.Load()
}
