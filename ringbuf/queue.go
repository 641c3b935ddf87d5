// SPDX-License-Identifier: EPL-2.0

package ringbuf

import (
	"fmt"
	"strings"
)

// Queue is a bounded FIFO with non-blocking push and pop.
type Queue[T any] interface {
	// TryPush appends item. It returns false, dropping item, when the queue is full.
	TryPush(item T) bool
	// TryPop removes the oldest item. ok is false when the queue is empty.
	TryPop() (item T, ok bool)
	// Len is a snapshot of the number of queued items.
	Len() int
	// Cap is the capacity the queue was created with. At most Cap()-1 items fit.
	Cap() int
}

// Mode selects the queue implementation.
type Mode int

const (
	// ModeMPSC allows any number of producer goroutines.
	ModeMPSC Mode = iota
	// ModeSPSC requires a single producer goroutine.
	ModeSPSC
)

func (m Mode) String() string {
	switch m {
	case ModeMPSC:
		return "mpsc"
	case ModeSPSC:
		return "spsc"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps "mpsc" or "spsc" (case-insensitive) to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mpsc", "":
		return ModeMPSC, nil
	case "spsc":
		return ModeSPSC, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// New creates a queue of the given mode and capacity.
func New[T any](mode Mode, capacity int) (Queue[T], error) {
	switch mode {
	case ModeMPSC:
		return NewMPSC[T](capacity)
	case ModeSPSC:
		return NewSPSC[T](capacity)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
}

func checkCapacity(capacity int) error {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrCapacityNotPowerOfTwo, capacity)
	}
	return nil
}
