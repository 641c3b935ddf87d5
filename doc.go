// SPDX-License-Identifier: EPL-2.0

// Package rtsfx is a realtime sound-effect engine.
//
// Sound effects (click, beep, explosion) are triggered from any goroutine
// and mixed into a stereo stream by a render callback that never blocks,
// never allocates and never logs. The pieces live in subpackages:
//
//   - engine: the mixer, its command queue and the Device boundary
//   - sources/procedural, sources/cached: triggered effect sources
//   - sources/tone: a continuous sine with a play/pause/stop lifecycle
//   - devices/...: malgo, oto, PulseAudio and a headless null device
//   - formats/wav, formats/flac: export of rendered audio
//   - tap, metrics: recording and Prometheus counters for a live engine
//
// # Playing Sounds
//
//	m, _ := engine.New(engine.WithDevice(dev))
//	src, _ := cached.New(m.SampleRate())
//	m.AddSource(src)
//	_ = m.Initialize(ctx)
//	defer m.Shutdown()
//
//	src.TriggerBeep(0.3, 5, -0.5) // 5 ms jitter, panned left
//
// # Rendering Offline
//
// A PatternReader plays a pattern through its own engine and is read like
// any other audio.Reader:
//
//	hits, _ := rtsfx.ParsePattern("click@0,beep@250ms:0.5:-1")
//	r, _ := rtsfx.NewPatternReader(hits, false)
//	pcm, _ := rtsfx.CollectPCM16(r, 0, 0)
//
// Every sample is computed in float32 and clamped to [-1, 1] on output;
// 16-bit conversion scales by 32767.
package rtsfx
