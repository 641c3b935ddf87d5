// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func factoryFor(id int) SourceFactory {
	return func(int) (Source, error) {
		return &nopSource{id: id}, nil
	}
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("nop", factoryFor(7))

	if _, ok := registry.Get("nop"); !ok {
		t.Fatal("Registry.Get() failed to retrieve registered factory")
	}

	src, err := registry.New("nop", 44100)
	if err != nil {
		t.Fatalf("Registry.New() error = %v", err)
	}
	if got := src.(*nopSource).id; got != 7 {
		t.Errorf("Registry.New() built source %d, want 7", got)
	}
}

func TestRegistry_Errors(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("nop", factoryFor(1))
	registry.Register("broken", func(int) (Source, error) {
		return nil, errors.New("no table")
	})

	tests := []struct {
		name string
		rate int
		want error
	}{
		{"missing", 44100, ErrUnknownSource},
		{"nop", 0, ErrInvalidSampleRate},
		{"nop", -1, ErrInvalidSampleRate},
	}

	for _, tt := range tests {
		if _, err := registry.New(tt.name, tt.rate); !errors.Is(err, tt.want) {
			t.Errorf("Registry.New(%q, %d) error = %v, want %v", tt.name, tt.rate, err, tt.want)
		}
	}

	if _, err := registry.New("broken", 44100); err == nil {
		t.Error("Registry.New(\"broken\") error = nil, want factory error")
	}
}

func TestRegistry_OverwriteAndNames(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register("b", factoryFor(1))
	registry.Register("a", factoryFor(2))
	registry.Register("b", factoryFor(3))

	if got := registry.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Registry.Names() = %v, want [a b]", got)
	}

	src, _ := registry.New("b", 8000)
	if got := src.(*nopSource).id; got != 3 {
		t.Errorf("overwritten factory built %d, want 3", got)
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			registry.Register("nop", factoryFor(0))
		}()
		go func() {
			defer wg.Done()
			_, _ = registry.Get("nop")
		}()
	}
	wg.Wait()

	if _, ok := registry.Get("nop"); !ok {
		t.Error("Registry.Get() failed after concurrent operations")
	}
}

func BenchmarkRegistry_Get(b *testing.B) {
	registry := NewRegistry()
	registry.Register("nop", factoryFor(0))

	b.ReportAllocs()

	for b.Loop() {
		_, _ = registry.Get("nop")
	}
}
