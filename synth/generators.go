// SPDX-License-Identifier: EPL-2.0

package synth

import "math"

const (
	beepFrequency      = 800.0
	beepFadeFraction   = 0.1
	clickDecay         = 8.0
	explosionFrequency = 60.0
	explosionDecay     = 3.0
	explosionToneMix   = 0.7
	explosionNoiseMix  = 0.3
)

// ClickSample is a burst of white noise under a fast exponential decay,
// exp(-8t) with t running from 0 to 1 across the 10 ms window.
func ClickSample(local uint64, amplitude float32, sampleRate int, n Noise) float32 {
	dur := DurationSamples(Click, sampleRate)
	if local >= dur {
		return 0
	}
	t := float64(local) / float64(dur)
	env := math.Exp(-clickDecay * t)
	return float32(white(n)*env) * amplitude
}

// BeepSample is an 800 Hz sine under a trapezoid envelope: a linear fade-in
// over the first tenth of the 100 ms window, full level in the middle and a
// linear fade-out over the last tenth. It does not use noise; n is accepted
// so all generators share a signature.
func BeepSample(local uint64, amplitude float32, sampleRate int, _ Noise) float32 {
	dur := DurationSamples(Beep, sampleRate)
	if local >= dur {
		return 0
	}
	sec := float64(local) / float64(sampleRate)
	sine := math.Sin(2 * math.Pi * beepFrequency * sec)

	et := float64(local) / float64(dur)
	var env float64
	switch {
	case et < beepFadeFraction:
		env = et / beepFadeFraction
	case et > 1-beepFadeFraction:
		env = (1 - et) / beepFadeFraction
	default:
		env = 1
	}
	return float32(sine*env) * amplitude
}

// ExplosionSample mixes a 60 Hz rumble (70%) with white noise (30%) under a
// slow exponential decay, exp(-3t) across the 500 ms window.
func ExplosionSample(local uint64, amplitude float32, sampleRate int, n Noise) float32 {
	dur := DurationSamples(Explosion, sampleRate)
	if local >= dur {
		return 0
	}
	sec := float64(local) / float64(sampleRate)
	rumble := math.Sin(2 * math.Pi * explosionFrequency * sec)
	mixed := explosionToneMix*rumble + explosionNoiseMix*white(n)

	et := float64(local) / float64(dur)
	env := math.Exp(-explosionDecay * et)
	return float32(mixed*env) * amplitude
}

// Sample dispatches to the generator for kind. It returns 0 for an invalid
// kind and for any local offset at or past the end of the sound.
func Sample(kind Kind, local uint64, amplitude float32, sampleRate int, n Noise) float32 {
	switch kind {
	case Click:
		return ClickSample(local, amplitude, sampleRate, n)
	case Beep:
		return BeepSample(local, amplitude, sampleRate, n)
	case Explosion:
		return ExplosionSample(local, amplitude, sampleRate, n)
	}
	return 0
}

// Waveform renders the whole of kind at unit amplitude.
func Waveform(kind Kind, sampleRate int, n Noise) []float32 {
	dur := DurationSamples(kind, sampleRate)
	out := make([]float32, dur)
	for i := range out {
		out[i] = Sample(kind, uint64(i), 1, sampleRate, n)
	}
	return out
}

// PanGains maps pan in [-1, 1] (full left to full right) to channel gains
// that always sum to one. Out-of-range pan values are clamped.
func PanGains(pan float32) (left, right float32) {
	switch {
	case pan < -1:
		pan = -1
	case pan > 1:
		pan = 1
	case pan != pan: // NaN
		pan = 0
	}
	return (1 - pan) * 0.5, (1 + pan) * 0.5
}
