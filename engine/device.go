// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

// Channels is the engine's fixed output layout: interleaved stereo.
const Channels = 2

// DeviceConfig describes the stream the engine wants from a device.
type DeviceConfig struct {
	SampleRate      int
	Channels        int
	FramesPerBuffer int
}

// RenderFunc fills dst with interleaved stereo float32 frames. It is the
// realtime callback: it never blocks or allocates.
type RenderFunc func(dst []float32)

// Device is an output backend. Open prepares it to call render from its
// own realtime goroutine once Start is called; Stop halts callbacks and
// returns only after the last one has finished. Close releases the device;
// a closed device may be opened again.
type Device interface {
	Open(cfg DeviceConfig, render RenderFunc) error
	Start() error
	Stop() error
	Close() error
}

func deviceName(d Device) string {
	if s, ok := d.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", d)
}
