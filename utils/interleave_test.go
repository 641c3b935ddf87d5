// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"slices"
	"testing"
)

func TestInterleave(t *testing.T) {
	t.Parallel()

	dst := make([]float32, 7)
	n := Interleave(dst, []float32{1, 2, 3, 4}, []float32{-1, -2, -3})
	if n != 3 {
		t.Fatalf("Interleave() = %d, want 3", n)
	}
	if want := []float32{1, -1, 2, -2, 3, -3, 0}; !slices.Equal(dst, want) {
		t.Errorf("dst = %v, want %v", dst, want)
	}

	left := make([]float32, 3)
	right := make([]float32, 3)
	if n := Deinterleave(left, right, dst[:6]); n != 3 {
		t.Fatalf("Deinterleave() = %d, want 3", n)
	}
	if !slices.Equal(left, []float32{1, 2, 3}) || !slices.Equal(right, []float32{-1, -2, -3}) {
		t.Errorf("Deinterleave() = %v %v", left, right)
	}
}

func TestFloat32LE_RoundTrip(t *testing.T) {
	t.Parallel()

	src := []float32{0, 1, -1, 0.25, -0.125}
	buf := make([]byte, 4*len(src)+3)
	if n := PutFloat32LE(buf, src); n != 20 {
		t.Fatalf("PutFloat32LE() = %d, want 20", n)
	}
	// 1.0 is 0x3f800000
	if buf[4] != 0x00 || buf[7] != 0x3f || buf[6] != 0x80 {
		t.Errorf("1.0 encoded as % x", buf[4:8])
	}

	got := make([]float32, len(src))
	if n := Float32LE(got, buf); n != len(src) {
		t.Fatalf("Float32LE() = %d", n)
	}
	if !slices.Equal(got, src) {
		t.Errorf("round trip = %v, want %v", got, src)
	}
}

func TestPutFloat32LE_NoAllocs(t *testing.T) {
	src := make([]float32, 512)
	buf := make([]byte, 2048)
	if allocs := testing.AllocsPerRun(100, func() { PutFloat32LE(buf, src) }); allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
}
