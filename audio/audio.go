// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"slices"
	"sync"
)

// Reader is a pull-based PCM stream.
type Reader interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)

	BufSize() int

	// Close releases any resources.
	Close() error
}

// SourceFactory builds a Source for the given output sample rate.
type SourceFactory func(sampleRate int) (Source, error)

// Registry for source factories by name (e.g., "procedural", "cached").
type Registry struct {
	factories map[string]SourceFactory

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]SourceFactory),
		mtx:       &sync.Mutex{},
	}
}

func (r *Registry) Register(name string, f SourceFactory) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.factories[name] = f
}

func (r *Registry) Get(name string) (SourceFactory, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	f, ok := r.factories[name]
	return f, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// New looks up name and builds a source with it.
func (r *Registry) New(name string, sampleRate int) (Source, error) {
	f, ok := r.Get(name)
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	src, err := f(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("build %s source: %w", name, err)
	}
	return src, nil
}
