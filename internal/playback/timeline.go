// SPDX-License-Identifier: EPL-2.0

package playback

import "github.com/ik5/rtsfx/synth"

// Instance is one scheduled occurrence of a sound.
type Instance struct {
	Kind      synth.Kind
	Start     uint64 // absolute sample index
	Amplitude float32
	Left      float32 // pan gains
	Right     float32

	seq uint64 // arrival order, breaks ties between equal starts
}

func (a *Instance) before(b *Instance) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return a.seq < b.seq
}

// timeline is a bounded binary min-heap of instances ordered by start
// sample. It is written against a concrete slice so push and pop never
// box or allocate.
type timeline struct {
	items []Instance
}

func newTimeline(capacity int) timeline {
	return timeline{items: make([]Instance, 0, capacity)}
}

func (t *timeline) len() int { return len(t.items) }

// push reports false when the heap is full.
func (t *timeline) push(it Instance) bool {
	if len(t.items) == cap(t.items) {
		return false
	}
	t.items = append(t.items, it)
	t.up(len(t.items) - 1)
	return true
}

// due reports whether the earliest instance starts at or before cur.
func (t *timeline) due(cur uint64) bool {
	return len(t.items) > 0 && t.items[0].Start <= cur
}

func (t *timeline) pop() Instance {
	top := t.items[0]
	last := len(t.items) - 1
	t.items[0] = t.items[last]
	t.items = t.items[:last]
	if last > 0 {
		t.down(0)
	}
	return top
}

func (t *timeline) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !t.items[i].before(&t.items[parent]) {
			return
		}
		t.items[i], t.items[parent] = t.items[parent], t.items[i]
		i = parent
	}
}

func (t *timeline) down(i int) {
	n := len(t.items)
	for {
		smallest := i
		if l := 2*i + 1; l < n && t.items[l].before(&t.items[smallest]) {
			smallest = l
		}
		if r := 2*i + 2; r < n && t.items[r].before(&t.items[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		t.items[i], t.items[smallest] = t.items[smallest], t.items[i]
		i = smallest
	}
}
