// SPDX-License-Identifier: EPL-2.0

// Package pulse plays the engine's output through a PulseAudio (or
// PipeWire-pulse) server using the native protocol, without cgo.
package pulse

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jfreymuth/pulse"

	"github.com/ik5/rtsfx/engine"
)

var ErrNotOpen = errors.New("pulse device is not open")

const appName = "rtsfx"

// Device is an engine.Device backed by a PulseAudio playback stream.
type Device struct {
	mu     sync.Mutex
	client *pulse.Client
	stream *pulse.PlaybackStream

	// guards the callback against Stop
	cbMu     sync.Mutex
	running  bool
	render   engine.RenderFunc
	channels int
}

func New() *Device { return &Device{} }

func (d *Device) String() string { return "pulse" }

func (d *Device) Open(cfg engine.DeviceConfig, render engine.RenderFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream != nil {
		return nil
	}

	client, err := pulse.NewClient(pulse.ClientApplicationName(appName))
	if err != nil {
		return fmt.Errorf("connect to pulse server: %w", err)
	}

	d.render = render
	d.channels = cfg.Channels

	layout := pulse.PlaybackStereo
	if cfg.Channels == 1 {
		layout = pulse.PlaybackMono
	}
	latency := float64(2*cfg.FramesPerBuffer) / float64(cfg.SampleRate)

	stream, err := client.NewPlayback(pulse.Float32Reader(d.read),
		layout,
		pulse.PlaybackSampleRate(cfg.SampleRate),
		pulse.PlaybackLatency(latency),
	)
	if err != nil {
		client.Close()
		return fmt.Errorf("create pulse playback stream: %w", err)
	}

	d.client = client
	d.stream = stream
	return nil
}

// read is called by the pulse client whenever the server wants data.
func (d *Device) read(buf []float32) (int, error) {
	n := len(buf) - len(buf)%d.channels

	d.cbMu.Lock()
	defer d.cbMu.Unlock()

	if !d.running {
		clear(buf[:n])
		return n, nil
	}
	d.render(buf[:n])
	return n, nil
}

func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return ErrNotOpen
	}

	d.cbMu.Lock()
	d.running = true
	d.cbMu.Unlock()

	d.stream.Start()
	if err := d.stream.Error(); err != nil {
		return fmt.Errorf("start pulse stream: %w", err)
	}
	return nil
}

func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return nil
	}

	// waits for a read in flight
	d.cbMu.Lock()
	d.running = false
	d.cbMu.Unlock()

	d.stream.Stop()
	return nil
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stream == nil {
		return nil
	}

	d.cbMu.Lock()
	d.running = false
	d.cbMu.Unlock()

	d.stream.Close()
	d.client.Close()
	d.stream = nil
	d.client = nil
	return nil
}
