// SPDX-License-Identifier: EPL-2.0

// Package engine mixes audio sources into a realtime stereo stream.
//
// A Manager owns a registry of audio.Source values and a lock-free command
// queue. Game or UI goroutines enqueue commands; the render goroutine drains
// them at the start of every callback, mixes each active source at
// master × source volume, hard-clamps to [-1, 1] and interleaves the result.
//
//	m, err := engine.New(engine.WithDevice(dev), engine.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	if err := m.Initialize(ctx); err != nil {
//	    return err
//	}
//	defer m.Shutdown()
//
//	sfx, _ := procedural.New(m.SampleRate())
//	m.AddSource(sfx)
//	sfx.Click()
//
// Nothing on the render path blocks, locks, allocates or logs. When a queue
// is full the command or trigger is dropped and counted in Stats.
//
// Without a device the Manager renders only when asked, which is how files
// are produced offline:
//
//	stream := engine.NewStream(m, uint64(m.SampleRate())) // one second
//	err := wav.Encode(f, stream, 0)
package engine
