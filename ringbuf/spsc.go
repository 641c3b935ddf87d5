// SPDX-License-Identifier: EPL-2.0

package ringbuf

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// SPSC is a lock-free single-producer, single-consumer ring buffer.
//
// head is written only by the consumer and tail only by the producer. Using
// it from more than one producer goroutine loses updates on tail; use MPSC
// for that.
type SPSC[T any] struct {
	_    cpu.CacheLinePad
	head atomic.Uint64
	_    cpu.CacheLinePad
	tail atomic.Uint64
	_    cpu.CacheLinePad

	mask uint64
	buf  []T
}

// NewSPSC returns an empty SPSC queue. capacity must be a power of two.
func NewSPSC[T any](capacity int) (*SPSC[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	return &SPSC[T]{
		mask: uint64(capacity - 1),
		buf:  make([]T, capacity),
	}, nil
}

// MustNewSPSC is like NewSPSC but panics on an invalid capacity.
func MustNewSPSC[T any](capacity int) *SPSC[T] {
	q, err := NewSPSC[T](capacity)
	if err != nil {
		panic(err)
	}
	return q
}

// TryPush appends item, or drops it and returns false when the queue is
// full. Only one goroutine may push.
func (q *SPSC[T]) TryPush(item T) bool {
	tail := q.tail.Load()
	next := (tail + 1) & q.mask
	if next == q.head.Load() {
		return false
	}
	q.buf[tail] = item
	q.tail.Store(next)
	return true
}

// TryPop removes the oldest item. ok is false when the queue is empty.
func (q *SPSC[T]) TryPop() (T, bool) {
	var zero T
	head := q.head.Load()
	if head == q.tail.Load() {
		return zero, false
	}
	item := q.buf[head]
	q.buf[head] = zero
	q.head.Store((head + 1) & q.mask)
	return item, true
}

// Len is a snapshot of the number of queued items.
func (q *SPSC[T]) Len() int {
	tail := q.tail.Load()
	head := q.head.Load()
	return int((tail - head) & q.mask)
}

// Cap returns the capacity; at most Cap()-1 items fit.
func (q *SPSC[T]) Cap() int { return len(q.buf) }
