// SPDX-License-Identifier: EPL-2.0

// Package synth generates the engine's built-in sound effects one sample at
// a time.
//
// Every generator is a pure function of (local sample offset, amplitude,
// sample rate) plus an optional noise source:
//
//	v := synth.Sample(synth.Beep, 120, 0.5, 44100, nil)
//
// Passing a nil Noise draws from the process-wide random generator, so noisy
// sounds (Click, Explosion) differ on every run. Passing a seeded generator
// makes them reproducible:
//
//	rng := synth.NewSeededNoise(synth.CacheSeed)
//	table := synth.Waveform(synth.Click, 44100, rng)
//
// All generators return exactly 0 once local reaches DurationSamples.
package synth
