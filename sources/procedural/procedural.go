// SPDX-License-Identifier: EPL-2.0

// Package procedural provides a sound-effect source that synthesizes every
// sample live. Noisy sounds differ on each trigger.
package procedural

import (
	"fmt"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/internal/playback"
	"github.com/ik5/rtsfx/synth"
)

// Source synthesizes triggered sounds on the render goroutine.
type Source struct {
	audio.Base

	sched *playback.Scheduler
	noise synth.Noise
}

type options struct {
	noise    synth.Noise
	schedule []playback.Option
}

// Option configures a Source.
type Option func(*options)

// WithNoise makes noisy sounds reproducible. n is only used from the render
// goroutine, so a seeded *rand.Rand is fine.
func WithNoise(n synth.Noise) Option {
	return func(o *options) { o.noise = n }
}

// WithClock replaces the monotonic clock used to place triggers between
// render callbacks. now returns nanoseconds.
func WithClock(now func() int64) Option {
	return func(o *options) { o.schedule = append(o.schedule, playback.WithClock(now)) }
}

// WithPendingCapacity sets how many triggers may wait for the next render,
// a power of two.
func WithPendingCapacity(n int) Option {
	return func(o *options) { o.schedule = append(o.schedule, playback.WithPendingCapacity(n)) }
}

// WithTimelineCapacity sets how many sounds may be scheduled or playing.
func WithTimelineCapacity(n int) Option {
	return func(o *options) { o.schedule = append(o.schedule, playback.WithTimelineCapacity(n)) }
}

// New returns a Source rendering at sampleRate.
func New(sampleRate int, opts ...Option) (*Source, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Source{noise: o.noise}
	sched, err := playback.NewScheduler(sampleRate, s.sample, o.schedule...)
	if err != nil {
		return nil, fmt.Errorf("procedural source: %w", err)
	}
	s.sched = sched
	return s, nil
}

func (s *Source) sample(kind synth.Kind, local uint64, amplitude float32) float32 {
	return synth.Sample(kind, local, amplitude, s.sched.SampleRate(), s.noise)
}

func (s *Source) SampleRate() int { return s.sched.SampleRate() }

// GenerateSamples mixes every sounding instance into left and right.
func (s *Source) GenerateSamples(left, right []float32) {
	s.sched.Render(left, right)
}

// Trigger schedules kind and reports whether it was queued; it is dropped
// when too many triggers are waiting. Safe from any goroutine.
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

// Click plays a centred click at its default amplitude.
func (s *Source) Click() bool { return s.TriggerClick(synth.DefaultClickAmplitude, 0, 0) }

func (s *Source) Beep() bool { return s.TriggerBeep(synth.DefaultBeepAmplitude, 0, 0) }

func (s *Source) Explosion() bool {
	return s.TriggerExplosion(synth.DefaultExplosionAmplitude, 0, 0)
}

func (s *Source) Stats() audio.PlaybackStats { return s.sched.Stats() }
