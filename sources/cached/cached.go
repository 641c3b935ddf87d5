// SPDX-License-Identifier: EPL-2.0

// Package cached provides a sound-effect source that plays waveforms
// rendered once at construction. Every trigger of a kind sounds the same.
package cached

import (
	"fmt"
	"slices"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/internal/playback"
	"github.com/ik5/rtsfx/synth"
)

// Source plays precomputed unit-amplitude tables scaled per trigger.
// The tables are never written after New returns.
type Source struct {
	audio.Base

	rate   int
	sched  *playback.Scheduler
	tables [synth.KindCount][]float32
}

type options struct {
	seed     uint64
	schedule []playback.Option
}

// Option configures a Source.
type Option func(*options)

// WithSeed changes the noise seed the tables are rendered with.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = seed }
}

// WithClock replaces the monotonic clock used to place triggers between
// render callbacks. now returns nanoseconds.
func WithClock(now func() int64) Option {
	return func(o *options) { o.schedule = append(o.schedule, playback.WithClock(now)) }
}

func WithPendingCapacity(n int) Option {
	return func(o *options) { o.schedule = append(o.schedule, playback.WithPendingCapacity(n)) }
}

func WithTimelineCapacity(n int) Option {
	return func(o *options) { o.schedule = append(o.schedule, playback.WithTimelineCapacity(n)) }
}

// New renders one table per kind at sampleRate, each from a fresh
// generator seeded with synth.CacheSeed unless WithSeed says otherwise.
func New(sampleRate int, opts ...Option) (*Source, error) {
	o := options{seed: synth.CacheSeed}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Source{rate: sampleRate}
	sched, err := playback.NewScheduler(sampleRate, s.sample, o.schedule...)
	if err != nil {
		return nil, fmt.Errorf("cached source: %w", err)
	}
	s.sched = sched

	for _, k := range synth.Kinds() {
		s.tables[k] = synth.Waveform(k, sampleRate, synth.NewSeededNoise(o.seed))
	}
	return s, nil
}

func (s *Source) sample(kind synth.Kind, local uint64, amplitude float32) float32 {
	table := s.tables[kind]
	if local >= uint64(len(table)) {
		return 0
	}
	return table[local] * amplitude
}

func (s *Source) SampleRate() int { return s.rate }

// Waveform returns a copy of the unit-amplitude table for kind, or nil for
// an invalid kind.
func (s *Source) Waveform(kind synth.Kind) []float32 {
	if !kind.Valid() {
		return nil
	}
	return slices.Clone(s.tables[kind])
}

// GenerateSamples mixes every sounding instance into left and right.
func (s *Source) GenerateSamples(left, right []float32) {
	s.sched.Render(left, right)
}

// Trigger schedules kind and reports whether it was queued. Safe from any
// goroutine.
func (s *Source) Trigger(kind synth.Kind, amplitude, jitterMs, pan float32) bool {
	return s.sched.Trigger(kind, amplitude, jitterMs, pan)
}

func (s *Source) TriggerClick(amplitude, jitterMs, pan float32) bool {
	return s.Trigger(synth.Click, amplitude, jitterMs, pan)
}

func (s *Source) TriggerBeep(amplitude, jitterMs, pan float32) bool {
	return s.Trigger(synth.Beep, amplitude, jitterMs, pan)
}

func (s *Source) TriggerExplosion(amplitude, jitterMs, pan float32) bool {
	return s.Trigger(synth.Explosion, amplitude, jitterMs, pan)
}

func (s *Source) Click() bool { return s.TriggerClick(synth.DefaultClickAmplitude, 0, 0) }
func (s *Source) Beep() bool  { return s.TriggerBeep(synth.DefaultBeepAmplitude, 0, 0) }

func (s *Source) Explosion() bool {
	return s.TriggerExplosion(synth.DefaultExplosionAmplitude, 0, 0)
}

func (s *Source) Stats() audio.PlaybackStats { return s.sched.Stats() }
