// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"encoding/binary"
	"math"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func constRender(v float32) func([]float32) {
	return func(dst []float32) {
		for i := range dst {
			dst[i] = v
		}
	}
}

func TestReader_SilentUntilRunning(t *testing.T) {
	t.Parallel()

	r := newReader(constRender(0.5), 2, 4)
	p := make([]byte, 8*4+3) // 4 frames and a partial one
	for i := range p {
		p[i] = 0xff
	}

	n, err := r.Read(p)
	if err != nil || n != 32 {
		t.Fatalf("Read() = %d, %v, want 32, nil", n, err)
	}
	for i, b := range p[:n] {
		if b != 0 {
			t.Fatalf("p[%d] = %#x, want 0 while stopped", i, b)
		}
	}
}

func TestReader_RendersWhenRunning(t *testing.T) {
	t.Parallel()

	r := newReader(constRender(0.5), 2, 2) // smaller than the request
	r.setRunning(true)

	p := make([]byte, 6*4*2)
	n, err := r.Read(p)
	if err != nil || n != len(p) {
		t.Fatalf("Read() = %d, %v, want %d, nil", n, err, len(p))
	}
	for i := 0; i < n; i += 4 {
		if got := math.Float32frombits(binary.LittleEndian.Uint32(p[i:])); got != 0.5 {
			t.Fatalf("sample %d = %v, want 0.5", i/4, got)
		}
	}
}

// Stopping waits for a render already in progress and no render starts
// afterwards.
func TestReader_StopWaitsForRender(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	r := newReader(func(dst []float32) {
		calls++
		if calls == 1 {
			close(entered)
			<-release
		}
		clear(dst)
	}, 2, 4)
	r.setRunning(true)

	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_, _ = r.Read(make([]byte, 32))
	}()
	<-entered

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		r.setRunning(false)
	}()

	select {
	case <-stopped:
		t.Fatal("setRunning(false) returned while a render was in progress")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-stopped
	<-readDone

	_, _ = r.Read(make([]byte, 32))
	if calls != 1 {
		t.Errorf("render calls = %d, want 1", calls)
	}
}

func BenchmarkReader_Read(b *testing.B) {
	r := newReader(constRender(0.25), 2, 512)
	r.setRunning(true)
	p := make([]byte, 512*2*4)

	b.ReportAllocs()
	for b.Loop() {
		_, _ = r.Read(p)
	}
}
