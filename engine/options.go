// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ik5/rtsfx/ringbuf"
)

const (
	DefaultSampleRate      = 44100
	DefaultFramesPerBuffer = 512
	DefaultCommandCapacity = 512
	DefaultMaxSources      = 64
	// DefaultMaxFrames is the scratch size; longer renders are chunked.
	DefaultMaxFrames    = 4096
	DefaultMasterVolume = 0.5
)

type config struct {
	sampleRate      int
	framesPerBuffer int
	commandCapacity int
	queueMode       ringbuf.Mode
	maxSources      int
	maxFrames       int
	masterVolume    float32
	device          Device
	logger          zerolog.Logger
}

func defaultConfig() config {
	return config{
		sampleRate:      DefaultSampleRate,
		framesPerBuffer: DefaultFramesPerBuffer,
		commandCapacity: DefaultCommandCapacity,
		queueMode:       ringbuf.ModeMPSC,
		maxSources:      DefaultMaxSources,
		maxFrames:       DefaultMaxFrames,
		masterVolume:    DefaultMasterVolume,
		logger:          zerolog.Nop(),
	}
}

func (c *config) validate() error {
	if c.sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, c.sampleRate)
	}
	if c.framesPerBuffer <= 0 {
		return fmt.Errorf("%w: frames per buffer %d", ErrInvalidFrames, c.framesPerBuffer)
	}
	if c.maxFrames <= 0 {
		return fmt.Errorf("%w: max frames %d", ErrInvalidFrames, c.maxFrames)
	}
	if c.maxSources <= 0 {
		return fmt.Errorf("%w: max sources %d", ErrInvalidCapacity, c.maxSources)
	}
	return nil
}

// Option configures a Manager.
type Option func(*config)

func WithSampleRate(hz int) Option { return func(c *config) { c.sampleRate = hz } }

// WithFramesPerBuffer sets the callback period requested from the device.
func WithFramesPerBuffer(n int) Option { return func(c *config) { c.framesPerBuffer = n } }

// WithCommandCapacity sets the command queue size, a power of two.
func WithCommandCapacity(n int) Option { return func(c *config) { c.commandCapacity = n } }

// WithQueueMode selects the command queue implementation. ringbuf.ModeSPSC
// is only correct when a single goroutine ever calls the control methods.
func WithQueueMode(m ringbuf.Mode) Option { return func(c *config) { c.queueMode = m } }

// WithMaxSources bounds the source registry.
func WithMaxSources(n int) Option { return func(c *config) { c.maxSources = n } }

// WithMaxFrames sets the largest chunk rendered in one pass.
func WithMaxFrames(n int) Option { return func(c *config) { c.maxFrames = n } }

func WithMasterVolume(v float32) Option { return func(c *config) { c.masterVolume = v } }

// WithDevice sets the output device opened by Initialize. Without one the
// manager only renders when Render is called.
func WithDevice(d Device) Option { return func(c *config) { c.device = d } }

func WithLogger(l zerolog.Logger) Option { return func(c *config) { c.logger = l } }
