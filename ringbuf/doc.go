// SPDX-License-Identifier: EPL-2.0

// Package ringbuf provides bounded, lock-free queues for handing fixed-size
// records to a realtime consumer.
//
// Two implementations share the Queue interface:
//   - SPSC: the classic single-producer/single-consumer ring with two
//     cache-line separated cursors. Only safe when exactly one goroutine
//     pushes and exactly one goroutine pops.
//   - MPSC: a bounded multi-producer/single-consumer ring. Producers claim
//     slots with a compare-and-swap on the tail; each slot carries a sequence
//     number so the consumer never reads a slot that is still being written.
//
// # Capacity
//
// Capacity must be a power of two. Both queues keep one slot free, so a
// queue created with capacity N accepts at most N-1 items:
//
//	q := ringbuf.MustNewMPSC[int](4)
//	q.TryPush(1) // true
//	q.TryPush(2) // true
//	q.TryPush(3) // true
//	q.TryPush(4) // false, queue is full
//
// # Drop-on-full
//
// TryPush never blocks. When the queue is full the item is dropped and
// TryPush returns false. Callers on a realtime path treat this as silent
// data loss and never retry or propagate it.
//
// # Memory ordering
//
// Go's sync/atomic operations are sequentially consistent, which is stronger
// than the acquire/release pairs the algorithms need: the producer writes the
// slot before publishing the cursor (or sequence), and the consumer observes
// the cursor before reading the slot.
//
// # Allocation
//
// TryPush and TryPop never allocate. Popped slots are reset to the zero value
// so references held by queued records do not outlive their consumption.
package ringbuf
