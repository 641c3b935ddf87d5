// SPDX-License-Identifier: EPL-2.0

package ringbuf

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

type cell[T any] struct {
	seq atomic.Uint64
	val T
}

// MPSC is a bounded lock-free queue for many producers and one consumer.
//
// Producers claim a position by advancing tail with a compare-and-swap and
// publish the written slot through its sequence number. A slot whose
// sequence is pos+1 holds the item for pos; after the consumer reads it the
// sequence moves one lap ahead to pos+capacity.
//
// A producer that has claimed a slot but not yet published it hides every
// later item from the consumer until it finishes. The consumer sees that as
// an empty queue and picks the items up on its next drain.
type MPSC[T any] struct {
	_    cpu.CacheLinePad
	tail atomic.Uint64
	_    cpu.CacheLinePad
	head atomic.Uint64
	_    cpu.CacheLinePad

	mask  uint64
	cells []cell[T]
}

// NewMPSC returns an empty MPSC queue. capacity must be a power of two.
func NewMPSC[T any](capacity int) (*MPSC[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	q := &MPSC[T]{
		mask:  uint64(capacity - 1),
		cells: make([]cell[T], capacity),
	}
	for i := range q.cells {
		q.cells[i].seq.Store(uint64(i))
	}
	return q, nil
}

// MustNewMPSC is like NewMPSC but panics on an invalid capacity.
func MustNewMPSC[T any](capacity int) *MPSC[T] {
	q, err := NewMPSC[T](capacity)
	if err != nil {
		panic(err)
	}
	return q
}

// TryPush appends item, or drops it and returns false when the queue is
// full. Safe for concurrent producers.
func (q *MPSC[T]) TryPush(item T) bool {
	for {
		pos := q.tail.Load()
		head := q.head.Load()
		if pos < head {
			// tail moved and was consumed since we loaded it
			continue
		}
		if pos-head >= q.mask {
			return false
		}

		c := &q.cells[pos&q.mask]
		seq := c.seq.Load()
		switch dif := int64(seq - pos); {
		case dif == 0:
			if q.tail.CompareAndSwap(pos, pos+1) {
				c.val = item
				c.seq.Store(pos + 1)
				return true
			}
		case dif < 0:
			// slot still holds last lap's item
			return false
		}
	}
}

// TryPop removes the oldest published item. Only one goroutine may pop.
func (q *MPSC[T]) TryPop() (T, bool) {
	var zero T
	head := q.head.Load()
	c := &q.cells[head&q.mask]
	if c.seq.Load() != head+1 {
		return zero, false
	}
	item := c.val
	c.val = zero
	c.seq.Store(head + q.mask + 1)
	q.head.Store(head + 1)
	return item, true
}

// Len is a snapshot of the number of claimed slots, including ones a
// producer has not published yet.
func (q *MPSC[T]) Len() int {
	head := q.head.Load()
	tail := q.tail.Load()
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// Cap returns the capacity; at most Cap()-1 items fit.
func (q *MPSC[T]) Cap() int { return len(q.cells) }
