// SPDX-License-Identifier: EPL-2.0

// Package audio defines the interfaces shared by the engine, its sources and
// its output pipeline.
//
// # Realtime sources
//
// A Source is pushed frames by the engine's render goroutine:
//
//	type Source interface {
//	    GenerateSamples(left, right []float32)
//	    Active() bool
//	    Volume() float32
//	    SetVolume(v float32)
//	    Start()
//	    Stop()
//	    Pause()
//	    Resume()
//	}
//
// GenerateSamples accumulates into the buffers it is given; it never
// overwrites them. Embed Base to get an always-active source with an atomic
// volume and no-op lifecycle hooks, then implement GenerateSamples only.
//
// # Pull readers
//
// A Reader is a finite or endless interleaved PCM stream that the caller
// pulls from:
//
//	buf := make([]float32, 4096)
//	for {
//	    n, err := r.ReadSamples(buf)
//	    // use buf[:n]
//	    if err == io.EOF {
//	        break
//	    }
//	}
//
// The engine exposes its output as a Reader so it can feed encoders and the
// MonoMixer, which averages the channels of each frame.
//
// # Registry
//
// Registry maps names to SourceFactory functions so sources can be chosen
// from configuration:
//
//	registry := audio.NewRegistry()
//	registry.Register("procedural", newProcedural)
//	src, err := registry.New("procedural", 44100)
//
// # Sample format
//
// Samples are float32 in [-1.0, 1.0]. Values outside that range are legal
// while mixing; the engine clamps its final output.
package audio
