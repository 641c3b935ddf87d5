// SPDX-License-Identifier: EPL-2.0

// Package malgo plays the engine's output through miniaudio, which picks
// the platform backend (ALSA, PulseAudio, CoreAudio, WASAPI, ...).
package malgo

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/utils"
)

var ErrNotOpen = errors.New("malgo device is not open")

// Device is an engine.Device backed by a miniaudio playback device.
type Device struct {
	backends []malgo.Backend

	mu  sync.Mutex
	ctx *malgo.AllocatedContext
	dev *malgo.Device

	// callback state, fixed between Open and Close
	render   engine.RenderFunc
	channels int
	buf      []float32
}

// Option configures a Device.
type Option func(*Device)

// WithBackends restricts miniaudio to the listed backends, in order of
// preference.
func WithBackends(b ...malgo.Backend) Option {
	return func(d *Device) { d.backends = b }
}

func New(opts ...Option) *Device {
	d := &Device{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) String() string { return "malgo" }

func (d *Device) Open(cfg engine.DeviceConfig, render engine.RenderFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev != nil {
		return nil
	}

	ctx, err := malgo.InitContext(d.backends, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("init malgo context: %w", err)
	}

	dc := malgo.DefaultDeviceConfig(malgo.Playback)
	dc.Playback.Format = malgo.FormatF32
	dc.Playback.Channels = uint32(cfg.Channels)
	dc.SampleRate = uint32(cfg.SampleRate)
	dc.PeriodSizeInFrames = uint32(cfg.FramesPerBuffer)

	d.render = render
	d.channels = cfg.Channels
	// miniaudio may ask for more than one period; larger requests are
	// rendered in pieces
	d.buf = make([]float32, cfg.FramesPerBuffer*cfg.Channels)

	dev, err := malgo.InitDevice(ctx.Context, dc, malgo.DeviceCallbacks{
		Data: d.onData,
	})
	if err != nil {
		_ = ctx.Uninit()
		ctx.Free()
		return fmt.Errorf("init malgo playback device: %w", err)
	}

	d.ctx = ctx
	d.dev = dev
	return nil
}

// onData runs on miniaudio's realtime thread.
func (d *Device) onData(out, _ []byte, frames uint32) {
	samples := int(frames) * d.channels
	for off := 0; off < samples; {
		n := min(samples-off, len(d.buf))
		chunk := d.buf[:n]
		d.render(chunk)
		utils.PutFloat32LE(out[4*off:], chunk)
		off += n
	}
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return ErrNotOpen
	}
	if err := d.dev.Start(); err != nil {
		return fmt.Errorf("start malgo device: %w", err)
	}
	return nil
}

// Stop returns once miniaudio has stopped calling back.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil || !d.dev.IsStarted() {
		return nil
	}
	if err := d.dev.Stop(); err != nil {
		return fmt.Errorf("stop malgo device: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dev == nil {
		return nil
	}
	d.dev.Uninit()
	d.dev = nil

	var err error
	if uerr := d.ctx.Uninit(); uerr != nil {
		err = fmt.Errorf("uninit malgo context: %w", uerr)
	}
	d.ctx.Free()
	d.ctx = nil
	d.render = nil
	return err
}
