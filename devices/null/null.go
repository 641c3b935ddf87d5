// SPDX-License-Identifier: EPL-2.0

// Package null is a headless output device. It drives the engine's render
// callback from a ticker at the configured buffer period and discards the
// audio, which keeps trigger timing realistic on machines without sound
// hardware.
package null

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/rtsfx/engine"
)

var (
	ErrNotOpen       = errors.New("null device is not open")
	ErrInvalidConfig = errors.New("invalid device config")
)

// Device is a timer-driven engine.Device.
type Device struct {
	period time.Duration

	mu     sync.Mutex
	render engine.RenderFunc
	buf    []float32
	tick   time.Duration
	cancel context.CancelFunc
	wg     sync.WaitGroup

	callbacks atomic.Uint64
}

// Option configures a Device.
type Option func(*Device)

// WithPeriod overrides the callback period derived from the buffer size.
func WithPeriod(d time.Duration) Option {
	return func(n *Device) { n.period = d }
}

func New(opts ...Option) *Device {
	d := &Device{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) String() string { return "null" }

func (d *Device) Open(cfg engine.DeviceConfig, render engine.RenderFunc) error {
	if cfg.SampleRate <= 0 || cfg.Channels <= 0 || cfg.FramesPerBuffer <= 0 || render == nil {
		return ErrInvalidConfig
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.render = render
	d.buf = make([]float32, cfg.FramesPerBuffer*cfg.Channels)
	d.tick = d.period
	if d.tick <= 0 {
		d.tick = time.Duration(cfg.FramesPerBuffer) * time.Second / time.Duration(cfg.SampleRate)
	}
	return nil
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.render == nil {
		return ErrNotOpen
	}
	if d.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.wg.Add(1)
	go d.loop(ctx, d.render, d.buf, d.tick)
	return nil
}

func (d *Device) loop(ctx context.Context, render engine.RenderFunc, buf []float32, tick time.Duration) {
	defer d.wg.Done()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			render(buf)
			d.callbacks.Add(1)
		}
	}
}

// Stop halts the ticker and waits for the callback in flight.
func (d *Device) Stop() error {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel != nil {
		cancel()
		d.wg.Wait()
	}
	return nil
}

func (d *Device) Close() error {
	if err := d.Stop(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.render = nil
	d.buf = nil
	return nil
}

// Callbacks returns how many buffers have been rendered.
func (d *Device) Callbacks() uint64 { return d.callbacks.Load() }
