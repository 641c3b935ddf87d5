// SPDX-License-Identifier: EPL-2.0

// Package tap records the engine's output without slowing the render
// goroutine. Rendered frames are converted to 16-bit PCM and offered to a
// byte ring; a drain goroutine hands them to a sink. When the ring is full
// or busy the frames are dropped and counted instead of waiting.
package tap

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/smallnest/ringbuffer"

	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/utils"
)

const (
	// DefaultCapacity holds about three seconds of 44.1 kHz stereo PCM.
	DefaultCapacity = 3 * 44100 * engine.Channels * 2
	drainInterval   = 10 * time.Millisecond
	frameBytes      = engine.Channels * 2
)

// Tap is a single-writer, single-reader recorder of interleaved stereo.
type Tap struct {
	rb   *ringbuffer.RingBuffer
	size uint64

	// byte counters; their difference bounds what the ring holds, so the
	// writer can tell a write will fit without taking the ring's lock
	in  atomic.Uint64
	out atomic.Uint64

	scratch []byte // writer only

	captured atomic.Uint64 // frames
	dropped  atomic.Uint64 // frames
}

// New returns a Tap whose ring holds capacity bytes, rounded down to whole
// frames.
func New(capacity int) (*Tap, error) {
	capacity -= capacity % frameBytes
	if capacity <= 0 {
		return nil, fmt.Errorf("tap capacity %d: %w", capacity, engine.ErrInvalidCapacity)
	}
	return &Tap{
		rb:      ringbuffer.New(capacity),
		size:    uint64(capacity),
		scratch: make([]byte, engine.DefaultMaxFrames*frameBytes),
	}, nil
}

// Write offers interleaved stereo frames to the ring. It never blocks; it
// only allocates when handed a buffer larger than any before.
func (t *Tap) Write(frames []float32) {
	n := len(frames) - len(frames)%engine.Channels
	if n == 0 {
		return
	}
	need := 2 * n
	if len(t.scratch) < need {
		t.scratch = make([]byte, need)
	}
	p := t.scratch[:need]
	for i, v := range frames[:n] {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(utils.Float32ToInt16(v)))
	}

	count := uint64(n / engine.Channels)
	if t.in.Load()-t.out.Load()+uint64(need) > t.size {
		t.dropped.Add(count)
		return
	}
	// the reader only frees space, so a write that fit above fits now;
	// TryWrite fails only when the reader holds the lock
	w, err := t.rb.TryWrite(p)
	if err != nil || w != need {
		t.in.Add(uint64(w))
		t.dropped.Add(count)
		return
	}
	t.in.Add(uint64(w))
	t.captured.Add(count)
}

// Run drains the ring into sink until ctx is done, then drains what is
// left once more. sink receives interleaved stereo int16 samples and must
// not retain the slice.
func (t *Tap) Run(ctx context.Context, sink func(pcm []int16) error) error {
	buf := make([]byte, 64*1024)
	pcm := make([]int16, len(buf)/2)

	ticker := time.NewTicker(drainInterval)
	defer ticker.Stop()

	for {
		if err := t.drain(buf, pcm, sink); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return t.drain(buf, pcm, sink)
		case <-ticker.C:
		}
	}
}

func (t *Tap) drain(buf []byte, pcm []int16, sink func([]int16) error) error {
	for {
		// read whole frames only
		avail := t.in.Load() - t.out.Load()
		want := min(uint64(len(buf)), avail)
		want -= want % frameBytes
		if want == 0 {
			return nil
		}

		n, err := t.rb.Read(buf[:want])
		if errors.Is(err, ringbuffer.ErrIsEmpty) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tap ring: %w", err)
		}
		t.out.Add(uint64(n))

		samples := n / 2
		for i := range samples {
			pcm[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
		}
		if err := sink(pcm[:samples]); err != nil {
			return fmt.Errorf("tap sink: %w", err)
		}
	}
}

// Captured returns how many frames reached the ring.
func (t *Tap) Captured() uint64 { return t.captured.Load() }

// Dropped returns how many frames were lost to a full or busy ring.
func (t *Tap) Dropped() uint64 { return t.dropped.Load() }

// Wrap returns a device that behaves like d and also feeds every rendered
// buffer to t.
func (t *Tap) Wrap(d engine.Device) engine.Device {
	return &tapped{Device: d, tap: t}
}

type tapped struct {
	engine.Device
	tap *Tap
}

func (d *tapped) String() string { return fmt.Sprint(d.Device) + "+tap" }

func (d *tapped) Open(cfg engine.DeviceConfig, render engine.RenderFunc) error {
	return d.Device.Open(cfg, func(dst []float32) {
		render(dst)
		d.tap.Write(dst)
	})
}
