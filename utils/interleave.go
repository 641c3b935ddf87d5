// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// Interleave writes left and right into dst as L R L R ... and returns the
// number of frames written, bounded by the shortest input.
func Interleave(dst, left, right []float32) int {
	n := min(len(left), len(right), len(dst)/2)
	for i := range n {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
	return n
}

// Deinterleave splits stereo src into left and right and returns the
// number of frames written.
func Deinterleave(left, right, src []float32) int {
	n := min(len(left), len(right), len(src)/2)
	for i := range n {
		left[i] = src[2*i]
		right[i] = src[2*i+1]
	}
	return n
}

// PutFloat32LE encodes src into dst as little-endian IEEE 754 floats and
// returns the number of bytes written.
func PutFloat32LE(dst []byte, src []float32) int {
	n := min(len(src), len(dst)/4)
	for i := range n {
		binary.LittleEndian.PutUint32(dst[4*i:], math.Float32bits(src[i]))
	}
	return 4 * n
}

// Float32LE decodes little-endian floats from src into dst and returns the
// number of samples decoded.
func Float32LE(dst []float32, src []byte) int {
	n := min(len(dst), len(src)/4)
	for i := range n {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return n
}
