// SPDX-License-Identifier: EPL-2.0

package engine

import "sync"

// fakeDevice records lifecycle calls and lets the test invoke the render
// callback by hand.
type fakeDevice struct {
	mu     sync.Mutex
	cfg    DeviceConfig
	render RenderFunc

	opens, starts, stops, closes int

	openErr  error
	startErr error
	stopErr  error
}

func (d *fakeDevice) String() string { return "fake" }

func (d *fakeDevice) Open(cfg DeviceConfig, render RenderFunc) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opens++
	if d.openErr != nil {
		return d.openErr
	}
	d.cfg = cfg
	d.render = render
	return nil
}

func (d *fakeDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.starts++
	return d.startErr
}

func (d *fakeDevice) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stops++
	return d.stopErr
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closes++
	d.render = nil
	return nil
}

// tick runs one callback of frames stereo frames.
func (d *fakeDevice) tick(frames int) []float32 {
	d.mu.Lock()
	render := d.render
	d.mu.Unlock()

	buf := make([]float32, frames*Channels)
	if render != nil {
		render(buf)
	}
	return buf
}
