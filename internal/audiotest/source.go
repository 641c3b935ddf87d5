// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync/atomic"

	"github.com/ik5/rtsfx/audio"
)

// ConstSource is an audio.Source adding a fixed value to both channels of
// every frame. It counts the calls it receives so tests can assert what the
// render goroutine did with it.
type ConstSource struct {
	audio.Base

	Left, Right float32

	inactive atomic.Bool

	Generated atomic.Uint64 // frames
	Starts    atomic.Int32
	Stops     atomic.Int32
	Pauses    atomic.Int32
	Resumes   atomic.Int32
}

// NewConstSource returns a source writing value to both channels.
func NewConstSource(value float32) *ConstSource {
	return &ConstSource{Left: value, Right: value}
}

func (s *ConstSource) GenerateSamples(left, right []float32) {
	for i := range left {
		left[i] += s.Left
		right[i] += s.Right
	}
	s.Generated.Add(uint64(len(left)))
}

func (s *ConstSource) Active() bool { return !s.inactive.Load() }

// SetActive toggles whether the engine renders the source.
func (s *ConstSource) SetActive(v bool) { s.inactive.Store(!v) }

func (s *ConstSource) Start()  { s.Starts.Add(1) }
func (s *ConstSource) Stop()   { s.Stops.Add(1) }
func (s *ConstSource) Pause()  { s.Pauses.Add(1) }
func (s *ConstSource) Resume() { s.Resumes.Add(1) }

// ManualClock is a monotonic clock the test advances by hand.
type ManualClock struct {
	ns atomic.Int64
}

// NewManualClock starts the clock at start nanoseconds.
func NewManualClock(start int64) *ManualClock {
	c := &ManualClock{}
	c.ns.Store(start)
	return c
}

// Now returns the current reading in nanoseconds.
func (c *ManualClock) Now() int64 { return c.ns.Load() }

// Advance moves the clock forward by d nanoseconds.
func (c *ManualClock) Advance(d int64) { c.ns.Add(d) }
