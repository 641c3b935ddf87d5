// SPDX-License-Identifier: EPL-2.0

// Package oto plays the engine's output through ebitengine/oto. oto allows
// one context per process, so every Device shares it and all must use the
// same sample rate.
package oto

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/utils"
)

var (
	ErrNotOpen      = errors.New("oto device is not open")
	ErrRateMismatch = errors.New("oto context already created with another sample rate")
)

var (
	sharedMu   sync.Mutex
	sharedCtx  *oto.Context
	sharedRate int
)

func context(cfg engine.DeviceConfig) (*oto.Context, error) {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedCtx != nil {
		if sharedRate != cfg.SampleRate {
			return nil, fmt.Errorf("%w: have %d, want %d", ErrRateMismatch, sharedRate, cfg.SampleRate)
		}
		return sharedCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: cfg.Channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(cfg.FramesPerBuffer) * time.Second / time.Duration(cfg.SampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("create oto context: %w", err)
	}
	<-ready

	sharedCtx = ctx
	sharedRate = cfg.SampleRate
	return ctx, nil
}

// Device is an engine.Device backed by an oto player pulling from the
// engine through an io.Reader.
type Device struct {
	mu     sync.Mutex
	player *oto.Player
	pcm    *reader
}

func New() *Device { return &Device{} }

func (d *Device) String() string { return "oto" }

func (d *Device) Open(cfg engine.DeviceConfig, render engine.RenderFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		return nil
	}

	ctx, err := context(cfg)
	if err != nil {
		return err
	}

	d.pcm = newReader(render, cfg.Channels, cfg.FramesPerBuffer)
	d.player = ctx.NewPlayer(d.pcm)
	d.player.SetBufferSize(cfg.FramesPerBuffer * cfg.Channels * 4)
	return nil
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return ErrNotOpen
	}
	d.pcm.setRunning(true)
	d.player.Play()
	return nil
}

// Stop pauses the player. Once it returns the engine is no longer called;
// oto keeps pulling silence until the player is closed.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	d.player.Pause()
	d.pcm.setRunning(false)
	return nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	d.pcm.setRunning(false)
	err := d.player.Close()
	d.player = nil
	d.pcm = nil
	if err != nil {
		return fmt.Errorf("close oto player: %w", err)
	}
	return nil
}

// reader adapts a RenderFunc to the io.Reader oto pulls float32LE bytes
// from on its own goroutine. Read never locks: it announces itself in
// inflight before checking running, so setRunning(false) can wait for a
// render in progress to finish.
type reader struct {
	running  atomic.Bool
	inflight atomic.Int32
	render   engine.RenderFunc
	channels int
	buf      []float32
}

func newReader(render engine.RenderFunc, channels, frames int) *reader {
	return &reader{
		render:   render,
		channels: channels,
		buf:      make([]float32, frames*channels),
	}
}

// setRunning(false) returns once no Read is rendering.
func (r *reader) setRunning(v bool) {
	r.running.Store(v)
	if v {
		return
	}
	for r.inflight.Load() > 0 {
		runtime.Gosched()
	}
}

func (r *reader) Read(p []byte) (int, error) {
	frameBytes := 4 * r.channels
	total := len(p) - len(p)%frameBytes
	if total == 0 {
		clear(p)
		return len(p), nil
	}

	r.inflight.Add(1)
	defer r.inflight.Add(-1)

	if !r.running.Load() {
		clear(p[:total])
		return total, nil
	}

	for off := 0; off < total; {
		n := min((total-off)/4, len(r.buf))
		chunk := r.buf[:n]
		r.render(chunk)
		off += utils.PutFloat32LE(p[off:], chunk)
	}
	return total, nil
}
