// SPDX-License-Identifier: EPL-2.0

package synth

import "math/rand/v2"

// CacheSeed is the fixed seed cached waveforms are generated with.
const CacheSeed = 44

// Noise supplies uniformly distributed values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type Noise interface {
	Float32() float32
}

// NewSeededNoise returns a deterministic generator. Two generators built
// from the same seed produce the same sequence on every run and platform.
// The returned generator is not safe for concurrent use.
func NewSeededNoise(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// white returns a sample in [-1, 1). A nil n draws from the process-wide
// generator, which is safe for concurrent use, never allocates and is
// seeded randomly at startup.
func white(n Noise) float64 {
	var f float32
	if n == nil {
		f = rand.Float32()
	} else {
		f = n.Float32()
	}
	return 2*float64(f) - 1
}
