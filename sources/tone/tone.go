// SPDX-License-Identifier: EPL-2.0

// Package tone provides a continuous sine source with a real lifecycle:
// it is silent until started, keeps its phase across a pause and rewinds
// on stop.
package tone

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/internal/playback"
	"github.com/ik5/rtsfx/synth"
)

// State is the lifecycle state of a Source.
type State int32

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

const (
	DefaultFrequency = 440.0
	DefaultAmplitude = 0.2
)

// Source is a sine oscillator. Frequency, amplitude and pan may be changed
// from any goroutine; the lifecycle methods are meant for the render
// goroutine, which is where the engine calls them.
type Source struct {
	audio.Base

	rate  int
	freq  atomic.Uint64 // float64 bits
	amp   atomic.Uint32 // float32 bits
	pan   atomic.Uint32 // float32 bits
	state atomic.Int32

	phase float64 // render goroutine only
}

// Option configures a Source.
type Option func(*Source)

func WithFrequency(hz float64) Option { return func(s *Source) { s.SetFrequency(hz) } }
func WithAmplitude(a float32) Option  { return func(s *Source) { s.SetAmplitude(a) } }
func WithPan(p float32) Option        { return func(s *Source) { s.SetPan(p) } }

// WithPlaying starts the source in the Playing state.
func WithPlaying() Option { return func(s *Source) { s.state.Store(int32(Playing)) } }

// New returns a stopped Source at sampleRate.
func New(sampleRate int, opts ...Option) (*Source, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("tone source: %w: %d", playback.ErrInvalidSampleRate, sampleRate)
	}

	s := &Source{rate: sampleRate}
	s.SetFrequency(DefaultFrequency)
	s.SetAmplitude(DefaultAmplitude)
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Source) SampleRate() int { return s.rate }

func (s *Source) Frequency() float64 { return math.Float64frombits(s.freq.Load()) }

// SetFrequency changes the pitch; negative values are treated as 0 and
// values above Nyquist are clamped to it.
func (s *Source) SetFrequency(hz float64) {
	hz = max(0, min(hz, float64(s.rate)/2))
	s.freq.Store(math.Float64bits(hz))
}

func (s *Source) Amplitude() float32     { return math.Float32frombits(s.amp.Load()) }
func (s *Source) SetAmplitude(a float32) { s.amp.Store(math.Float32bits(a)) }

func (s *Source) Pan() float32     { return math.Float32frombits(s.pan.Load()) }
func (s *Source) SetPan(p float32) { s.pan.Store(math.Float32bits(p)) }

func (s *Source) State() State { return State(s.state.Load()) }

// Active reports whether the source is playing.
func (s *Source) Active() bool { return s.State() == Playing }

func (s *Source) Start() { s.state.Store(int32(Playing)) }

// Stop silences the source and rewinds its phase.
func (s *Source) Stop() {
	s.state.Store(int32(Stopped))
	s.phase = 0
}

func (s *Source) Pause() {
	s.state.CompareAndSwap(int32(Playing), int32(Paused))
}

// Resume continues a paused source; it does not start a stopped one.
func (s *Source) Resume() {
	s.state.CompareAndSwap(int32(Paused), int32(Playing))
}

// GenerateSamples adds the sine into left and right.
func (s *Source) GenerateSamples(left, right []float32) {
	if s.State() != Playing {
		return
	}

	amp := float64(s.Amplitude())
	gl, gr := synth.PanGains(s.Pan())
	step := 2 * math.Pi * s.Frequency() / float64(s.rate)

	phase := s.phase
	for i := range left {
		v := float32(amp * math.Sin(phase))
		left[i] += v * gl
		right[i] += v * gr
		phase += step
		if phase >= 2*math.Pi {
			phase -= 2 * math.Pi
		}
	}
	s.phase = phase
}
