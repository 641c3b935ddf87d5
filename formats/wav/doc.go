// SPDX-License-Identifier: EPL-2.0

// Package wav writes 16-bit PCM WAV files.
//
// Two writers are provided. WriteWAV16 takes samples already in memory and
// writes the header first, so it works on any io.Writer:
//
//	pcm, _ := rtsfx.CollectPCM16(stream, frames, 0)
//	err := wav.WriteWAV16(f, 44100, 2, pcm)
//
// Encode pulls from an audio.Reader and streams through the go-audio
// encoder, which seeks back to fix up the header sizes when it is done:
//
//	f, _ := os.Create("out.wav")
//	n, err := wav.Encode(f, engine.NewStream(m, 44100), 0)
//
// Float samples are clamped to [-1, 1] and scaled by 32767, so full scale
// maps to ±32767 in both writers.
package wav
