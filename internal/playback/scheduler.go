// SPDX-License-Identifier: EPL-2.0

// Package playback schedules triggered sounds onto an absolute sample
// timeline and renders the instances that are due.
package playback

import (
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/ringbuf"
	"github.com/ik5/rtsfx/synth"
)

const (
	// DefaultPendingCapacity bounds triggers waiting for the render goroutine.
	DefaultPendingCapacity = 1024
	// DefaultTimelineCapacity bounds both the scheduled heap and the set
	// of instances currently sounding.
	DefaultTimelineCapacity = 1024

	// clock gaps beyond this are treated as this; the result is capped at
	// one buffer anyway and the cap keeps the multiplication in range.
	maxElapsed = int64(time.Minute)
)

// SampleFunc returns the value of kind at local sample offset, scaled by
// amplitude. It runs on the render goroutine.
type SampleFunc func(kind synth.Kind, local uint64, amplitude float32) float32

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the monotonic clock. now returns nanoseconds.
func WithClock(now func() int64) Option {
	return func(s *Scheduler) { s.now = now }
}

// WithPendingCapacity sets the trigger queue size, a power of two.
func WithPendingCapacity(n int) Option {
	return func(s *Scheduler) { s.pendingCap = n }
}

// WithTimelineCapacity sets how many instances may be scheduled, and how
// many may sound, at once.
func WithTimelineCapacity(n int) Option {
	return func(s *Scheduler) { s.timelineCap = n }
}

// Scheduler turns triggers from any goroutine into sample-accurate
// instances mixed by a single render goroutine.
//
// Trigger estimates the sample the audio device is currently playing from
// the last render position and the wall-clock time since that render, so
// sounds triggered between callbacks start where they were requested rather
// than at the next buffer boundary.
type Scheduler struct {
	rate        int
	sample      SampleFunc
	now         func() int64
	durations   [synth.KindCount]uint64
	pendingCap  int
	timelineCap int

	pending *ringbuf.MPSC[Instance]

	// owned by the render goroutine
	timeline timeline
	active   []Instance
	seq      uint64

	position   atomic.Uint64
	lastRender atomic.Int64
	lastFrames atomic.Uint64
	rendered   atomic.Bool

	queued     atomic.Uint64
	dropped    atomic.Uint64
	started    atomic.Uint64
	finished   atomic.Uint64
	overflowed atomic.Uint64
	activeN    atomic.Int64
}

// NewScheduler builds a scheduler rendering at sampleRate through sample.
func NewScheduler(sampleRate int, sample SampleFunc, opts ...Option) (*Scheduler, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}
	if sample == nil {
		return nil, ErrNilSampleFunc
	}

	s := &Scheduler{
		rate:        sampleRate,
		sample:      sample,
		pendingCap:  DefaultPendingCapacity,
		timelineCap: DefaultTimelineCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.now == nil {
		epoch := time.Now()
		s.now = func() int64 { return int64(time.Since(epoch)) }
	}
	if s.timelineCap <= 0 {
		return nil, fmt.Errorf("%w: timeline %d", ErrInvalidCapacity, s.timelineCap)
	}

	pending, err := ringbuf.NewMPSC[Instance](s.pendingCap)
	if err != nil {
		return nil, fmt.Errorf("pending queue: %w", err)
	}
	s.pending = pending
	s.timeline = newTimeline(s.timelineCap)
	s.active = make([]Instance, 0, s.timelineCap)

	for _, k := range synth.Kinds() {
		s.durations[k] = synth.DurationSamples(k, sampleRate)
	}
	return s, nil
}

func (s *Scheduler) SampleRate() int { return s.rate }

// Position is the absolute index of the next sample Render will produce.
func (s *Scheduler) Position() uint64 { return s.position.Load() }

// Trigger schedules kind and reports whether it was queued. jitterMs > 0
// delays the start by a uniformly random amount in [0, jitterMs]; pan is
// clamped to [-1, 1]. It never blocks and is safe from any goroutine.
func (s *Scheduler) Trigger(kind synth.Kind, amplitude, jitterMs, pan float32) bool {
	if !kind.Valid() {
		return false
	}

	start := s.position.Load() + s.elapsedSamples()
	if jitterMs > 0 {
		start += uint64(rand.Float64() * float64(jitterMs) * float64(s.rate) / 1000)
	}

	left, right := synth.PanGains(pan)
	ok := s.pending.TryPush(Instance{
		Kind:      kind,
		Start:     start,
		Amplitude: amplitude,
		Left:      left,
		Right:     right,
	})
	if !ok {
		s.dropped.Add(1)
		return false
	}
	s.queued.Add(1)
	return true
}

// elapsedSamples estimates how far the device has played into the buffer
// handed over at the last render. Before the first render it is zero, and
// it never exceeds that buffer's length.
func (s *Scheduler) elapsedSamples() uint64 {
	if !s.rendered.Load() {
		return 0
	}

	d := s.now() - s.lastRender.Load()
	if d <= 0 {
		return 0
	}
	d = min(d, maxElapsed)

	e := uint64(d) * uint64(s.rate) / uint64(time.Second)
	return min(e, s.lastFrames.Load())
}

// Render adds min(len(left), len(right)) frames of every due instance into
// left and right, then advances the position. It must only be called from
// one goroutine at a time and does not allocate.
func (s *Scheduler) Render(left, right []float32) {
	n := min(len(left), len(right))

	s.lastRender.Store(s.now())
	s.lastFrames.Store(uint64(n))
	s.rendered.Store(true)

	pos := s.position.Load()
	for i := range n {
		cur := pos + uint64(i)

		// triggers may land while this buffer is being rendered
		s.drain()
		for s.timeline.due(cur) {
			inst := s.timeline.pop()
			if len(s.active) == cap(s.active) {
				s.overflowed.Add(1)
				continue
			}
			// a trigger racing this render may be dated behind cur;
			// it starts now and plays in full
			if inst.Start < cur {
				inst.Start = cur
			}
			s.active = append(s.active, inst)
			s.started.Add(1)
		}

		if len(s.active) == 0 {
			continue
		}

		keep := 0
		for _, inst := range s.active {
			local := cur - inst.Start
			if local >= s.durations[inst.Kind] {
				s.finished.Add(1)
				continue
			}
			v := s.sample(inst.Kind, local, inst.Amplitude)
			left[i] += v * inst.Left
			right[i] += v * inst.Right
			s.active[keep] = inst
			keep++
		}
		s.active = s.active[:keep]
	}

	s.position.Store(pos + uint64(n))
	s.activeN.Store(int64(len(s.active)))
}

func (s *Scheduler) drain() {
	for {
		inst, ok := s.pending.TryPop()
		if !ok {
			return
		}
		inst.seq = s.seq
		s.seq++
		if !s.timeline.push(inst) {
			s.overflowed.Add(1)
		}
	}
}

// Stats returns a snapshot of the trigger counters.
func (s *Scheduler) Stats() audio.PlaybackStats {
	return audio.PlaybackStats{
		TriggersQueued:      s.queued.Load(),
		TriggersDropped:     s.dropped.Load(),
		InstancesStarted:    s.started.Load(),
		InstancesFinished:   s.finished.Load(),
		InstancesOverflowed: s.overflowed.Load(),
		Active:              int(s.activeN.Load()),
	}
}
