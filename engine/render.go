// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"math"

	"github.com/ik5/rtsfx/audio"
)

// Render fills dst with len(dst)/2 interleaved stereo frames and returns
// the frame count. A trailing odd sample is left untouched.
func (m *Manager) Render(dst []float32) int {
	frames := len(dst) / Channels
	m.processCommands()

	for done := 0; done < frames; {
		n := min(frames-done, m.cfg.maxFrames)
		m.mix(n)

		out := dst[done*Channels : (done+n)*Channels]
		for i := range n {
			out[2*i] = m.mixL[i]
			out[2*i+1] = m.mixR[i]
		}
		done += n
	}

	m.buffers.Add(1)
	m.frames.Add(uint64(frames))
	return frames
}

// RenderPlanar is Render for separate channel buffers. It renders
// min(len(left), len(right)) frames and returns that count.
func (m *Manager) RenderPlanar(left, right []float32) int {
	frames := min(len(left), len(right))
	m.processCommands()

	for done := 0; done < frames; {
		n := min(frames-done, m.cfg.maxFrames)
		m.mix(n)
		copy(left[done:done+n], m.mixL[:n])
		copy(right[done:done+n], m.mixR[:n])
		done += n
	}

	m.buffers.Add(1)
	m.frames.Add(uint64(frames))
	return frames
}

// mix renders n <= maxFrames frames into mixL and mixR, clamped to [-1, 1].
func (m *Manager) mix(n int) {
	mixL, mixR := m.mixL[:n], m.mixR[:n]
	srcL, srcR := m.srcL[:n], m.srcR[:n]
	clear(mixL)
	clear(mixR)

	master := m.MasterVolume()
	for _, src := range m.sources {
		if !src.Active() {
			continue
		}
		clear(srcL)
		clear(srcR)
		src.GenerateSamples(srcL, srcR)

		g := master * src.Volume()
		for i := range n {
			mixL[i] += srcL[i] * g
			mixR[i] += srcR[i] * g
		}
	}

	var clipped uint64
	for i := range n {
		if v, c := clamp(mixL[i]); c {
			mixL[i] = v
			clipped++
		}
		if v, c := clamp(mixR[i]); c {
			mixR[i] = v
			clipped++
		}
	}
	if clipped > 0 {
		m.clipped.Add(clipped)
	}
}

// clamp limits v to [-1, 1] and reports whether it changed. NaN becomes 0.
func clamp(v float32) (float32, bool) {
	switch {
	case v > 1:
		return 1, true
	case v < -1:
		return -1, true
	case v != v:
		return 0, true
	}
	return v, false
}

// processCommands applies at most one queue's worth of commands so a
// flooding producer cannot stall the callback.
func (m *Manager) processCommands() {
	limit := m.commands.Cap()
	var n uint64
	for range limit {
		cmd, ok := m.commands.TryPop()
		if !ok {
			break
		}
		m.apply(cmd)
		n++
	}
	if n > 0 {
		m.commandsProcessed.Add(n)
	}
}

func (m *Manager) apply(cmd Command) {
	if cmd.Kind == CmdSetMasterVolume {
		m.master.Store(math.Float32bits(cmd.Value))
		return
	}

	idx := m.indexOf(cmd.Source)
	switch cmd.Kind {
	case CmdAddSource:
		if idx >= 0 {
			return
		}
		if len(m.sources) == cap(m.sources) {
			m.registryOverflows.Add(1)
			return
		}
		m.sources = append(m.sources, cmd.Source)
		m.sourceCount.Store(int64(len(m.sources)))
		return
	case CmdRemoveSource:
		if idx < 0 {
			return
		}
		last := len(m.sources) - 1
		copy(m.sources[idx:], m.sources[idx+1:])
		m.sources[last] = nil
		m.sources = m.sources[:last]
		m.sourceCount.Store(int64(len(m.sources)))
		return
	}

	// the rest address a registered source; stale handles are ignored
	if idx < 0 {
		return
	}
	src := m.sources[idx]
	switch cmd.Kind {
	case CmdSetSourceVolume:
		src.SetVolume(cmd.Value)
	case CmdStartSource:
		src.Start()
	case CmdStopSource:
		src.Stop()
	case CmdPauseSource:
		src.Pause()
	case CmdResumeSource:
		src.Resume()
	}
}

func (m *Manager) indexOf(src audio.Source) int {
	if src == nil {
		return -1
	}
	for i, s := range m.sources {
		if s == src {
			return i
		}
	}
	return -1
}
