// SPDX-License-Identifier: EPL-2.0

package null

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/internal/audiotest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var _ engine.Device = (*Device)(nil)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestDevice_DrivesCallback(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	var size atomic.Int64
	d := New(WithPeriod(time.Millisecond))

	cfg := engine.DeviceConfig{SampleRate: 44100, Channels: 2, FramesPerBuffer: 64}
	if err := d.Open(cfg, func(dst []float32) {
		size.Store(int64(len(dst)))
		calls.Add(1)
	}); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := d.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := d.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}

	waitFor(t, func() bool { return calls.Load() >= 3 })

	if err := d.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	stopped := calls.Load()
	time.Sleep(10 * time.Millisecond)
	if calls.Load() != stopped {
		t.Error("callback ran after Stop returned")
	}
	if size.Load() != 128 {
		t.Errorf("buffer len = %d, want 128", size.Load())
	}
	if d.Callbacks() != uint64(stopped) {
		t.Errorf("Callbacks() = %d, want %d", d.Callbacks(), stopped)
	}

	if err := d.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := d.Start(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Start() after Close error = %v, want ErrNotOpen", err)
	}
}

func TestDevice_InvalidConfig(t *testing.T) {
	t.Parallel()

	d := New()
	noop := func([]float32) {}
	for _, cfg := range []engine.DeviceConfig{
		{SampleRate: 0, Channels: 2, FramesPerBuffer: 64},
		{SampleRate: 44100, Channels: 0, FramesPerBuffer: 64},
		{SampleRate: 44100, Channels: 2, FramesPerBuffer: 0},
	} {
		if err := d.Open(cfg, noop); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Open(%+v) error = %v", cfg, err)
		}
	}
	if err := d.Open(engine.DeviceConfig{SampleRate: 1, Channels: 1, FramesPerBuffer: 1}, nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Open(nil render) error = %v", err)
	}
}

// The engine renders through the null device and a source sees frames.
func TestDevice_WithEngine(t *testing.T) {
	t.Parallel()

	d := New(WithPeriod(time.Millisecond))
	m, err := engine.New(engine.WithDevice(d), engine.WithFramesPerBuffer(32))
	if err != nil {
		t.Fatal(err)
	}

	src := audiotest.NewConstSource(0.5)
	m.AddSource(src)

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	waitFor(t, func() bool { return src.Generated.Load() >= 96 })

	if err := m.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if st := m.Stats(); st.Buffers == 0 || st.Frames != st.Buffers*32 {
		t.Errorf("Stats() = %+v", st)
	}
}
