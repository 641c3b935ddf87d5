// SPDX-License-Identifier: EPL-2.0

package rtsfx

import (
	"cmp"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/engine"
	"github.com/ik5/rtsfx/sources/cached"
	"github.com/ik5/rtsfx/sources/procedural"
	"github.com/ik5/rtsfx/synth"
)

// Hit is one trigger of an offline pattern.
type Hit struct {
	Kind      synth.Kind
	At        time.Duration
	Amplitude float32
	Pan       float32
}

// ParsePattern reads a comma separated list of kind@offset[:amplitude[:pan]]
// items, for example "click@0,beep@250ms:0.5:-1". Offsets are Go durations;
// the amplitude defaults to the kind's convenience amplitude and the pan to
// center. The result is ordered by offset, keeping input order for ties.
func ParsePattern(s string) ([]Hit, error) {
	var hits []Hit
	for item := range strings.SplitSeq(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		h, err := parseHit(item)
		if err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	if len(hits) == 0 {
		return nil, ErrEmptyPattern
	}

	slices.SortStableFunc(hits, byOffset)
	return hits, nil
}

func byOffset(a, b Hit) int { return cmp.Compare(a.At, b.At) }

func parseHit(item string) (Hit, error) {
	name, rest, ok := strings.Cut(item, "@")
	if !ok {
		return Hit{}, fmt.Errorf("%w: %q has no @offset", ErrInvalidPattern, item)
	}
	kind, err := synth.ParseKind(name)
	if err != nil {
		return Hit{}, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	fields := strings.Split(rest, ":")
	if len(fields) > 3 {
		return Hit{}, fmt.Errorf("%w: %q has too many fields", ErrInvalidPattern, item)
	}

	at, err := time.ParseDuration(fields[0])
	if err != nil || at < 0 {
		return Hit{}, fmt.Errorf("%w: bad offset in %q", ErrInvalidPattern, item)
	}

	h := Hit{Kind: kind, At: at, Amplitude: kind.DefaultAmplitude()}
	if len(fields) > 1 {
		if h.Amplitude, err = parseFloat(fields[1]); err != nil {
			return Hit{}, fmt.Errorf("%w: bad amplitude in %q", ErrInvalidPattern, item)
		}
	}
	if len(fields) > 2 {
		if h.Pan, err = parseFloat(fields[2]); err != nil || h.Pan < -1 || h.Pan > 1 {
			return Hit{}, fmt.Errorf("%w: pan in %q must be within [-1, 1]", ErrInvalidPattern, item)
		}
	}
	return h, nil
}

func parseFloat(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return float32(v), nil
}

// Triggerer is a source that plays sound kinds on demand; both the
// procedural and the cached sources implement it.
type Triggerer interface {
	audio.Source
	Trigger(kind synth.Kind, amplitude, jitterMs, pan float32) bool
}

// PatternReader renders a pattern offline through its own engine. Every
// hit starts exactly on its sample offset and the stream ends with io.EOF
// once the last sound has finished.
type PatternReader struct {
	m      *engine.Manager
	src    Triggerer
	hits   []Hit
	starts []uint64
	next   int
	pos    uint64
	total  uint64
}

// NewPatternReader builds an engine from opts (no device is needed) and a
// cached source, or a procedural one when procedural is set. Noise is
// seeded with synth.CacheSeed in both cases, so renders are repeatable.
func NewPatternReader(hits []Hit, procedural bool, opts ...engine.Option) (*PatternReader, error) {
	if len(hits) == 0 {
		return nil, ErrEmptyPattern
	}

	m, err := engine.New(opts...)
	if err != nil {
		return nil, err
	}
	rate := m.SampleRate()

	// a clock that never moves pins every trigger to the current position
	frozen := func() int64 { return 0 }

	var src Triggerer
	if procedural {
		src, err = newProcedural(rate, frozen)
	} else {
		src, err = cached.New(rate, cached.WithClock(frozen))
	}
	if err != nil {
		return nil, err
	}
	m.AddSource(src)

	p := &PatternReader{
		m:      m,
		src:    src,
		hits:   slices.Clone(hits),
		starts: make([]uint64, len(hits)),
	}
	slices.SortStableFunc(p.hits, byOffset)
	for i, h := range p.hits {
		p.starts[i] = uint64(h.At.Nanoseconds()) * uint64(rate) / uint64(time.Second)
		p.total = max(p.total, p.starts[i]+synth.DurationSamples(h.Kind, rate))
	}
	return p, nil
}

func newProcedural(rate int, clock func() int64) (Triggerer, error) {
	src, err := procedural.New(rate,
		procedural.WithClock(clock),
		procedural.WithNoise(synth.NewSeededNoise(synth.CacheSeed)),
	)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (p *PatternReader) SampleRate() int { return p.m.SampleRate() }
func (p *PatternReader) Channels() int   { return engine.Channels }
func (p *PatternReader) BufSize() int    { return p.m.FramesPerBuffer() * engine.Channels }
func (p *PatternReader) Close() error    { return p.m.Shutdown() }

// Frames returns the length of the rendering.
func (p *PatternReader) Frames() uint64 { return p.total }

// Engine returns the engine the pattern renders through.
func (p *PatternReader) Engine() *engine.Manager { return p.m }

// Source returns the source the hits are triggered on.
func (p *PatternReader) Source() Triggerer { return p.src }

func (p *PatternReader) ReadSamples(dst []float32) (int, error) {
	if p.pos >= p.total {
		return 0, io.EOF
	}

	frames := min(uint64(len(dst)/engine.Channels), p.total-p.pos)
	var done uint64
	for done < frames {
		for p.next < len(p.starts) && p.starts[p.next] == p.pos {
			h := p.hits[p.next]
			p.src.Trigger(h.Kind, h.Amplitude, 0, h.Pan)
			p.next++
		}

		chunk := frames - done
		if p.next < len(p.starts) {
			chunk = min(chunk, p.starts[p.next]-p.pos)
		}
		p.m.Render(dst[engine.Channels*done : engine.Channels*(done+chunk)])
		done += chunk
		p.pos += chunk
	}

	n := int(done) * engine.Channels
	if p.pos >= p.total {
		return n, io.EOF
	}
	return n, nil
}
