// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"sync/atomic"
)

// Source produces stereo audio on the render goroutine.
//
// GenerateSamples, Active and the lifecycle hooks are called by the render
// goroutine only. Volume and SetVolume may be called from any goroutine;
// application code should change a registered source's volume through the
// engine's command queue rather than calling SetVolume directly.
type Source interface {
	// GenerateSamples adds len(left) frames into left and right. The slices
	// have equal length and must not be retained. Implementations must not
	// block, lock or allocate.
	GenerateSamples(left, right []float32)
	Active() bool
	Volume() float32
	SetVolume(v float32)

	Start()
	Stop()
	Pause()
	Resume()
}

// StatsReporter is implemented by sources that count their triggers.
type StatsReporter interface {
	Stats() PlaybackStats
}

// PlaybackStats is a snapshot of a triggered source's counters.
type PlaybackStats struct {
	// TriggersQueued counts triggers accepted into the pending queue.
	TriggersQueued uint64
	// TriggersDropped counts triggers lost because the pending queue was full.
	TriggersDropped uint64
	// InstancesStarted counts instances that reached their start sample.
	InstancesStarted uint64
	// InstancesFinished counts instances that played to the end.
	InstancesFinished uint64
	// InstancesOverflowed counts instances discarded because the
	// timeline was full.
	InstancesOverflowed uint64
	// Active is the number of instances playing after the last render.
	Active int
}

// Base supplies the optional parts of Source: it is always active, keeps an
// atomic volume starting at 1 and ignores lifecycle calls. Embed it and
// implement GenerateSamples.
type Base struct {
	volume atomic.Uint32
	set    atomic.Bool
}

func (b *Base) Active() bool { return true }

func (b *Base) Volume() float32 {
	if !b.set.Load() {
		return 1
	}
	return math.Float32frombits(b.volume.Load())
}

func (b *Base) SetVolume(v float32) {
	b.volume.Store(math.Float32bits(v))
	b.set.Store(true)
}

func (b *Base) Start()  {}
func (b *Base) Stop()   {}
func (b *Base) Pause()  {}
func (b *Base) Resume() {}
