// SPDX-License-Identifier: EPL-2.0

package rtsfx

import (
	"github.com/ik5/rtsfx/audio"
	"github.com/ik5/rtsfx/sources/cached"
	"github.com/ik5/rtsfx/sources/procedural"
	"github.com/ik5/rtsfx/sources/tone"
)

// Names of the built-in source factories.
const (
	SourceProcedural = "procedural"
	SourceCached     = "cached"
	SourceTone       = "tone"
)

// NewDefaultRegistry returns a registry holding the built-in sources with
// their default options.
func NewDefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(SourceProcedural, func(rate int) (audio.Source, error) {
		src, err := procedural.New(rate)
		if err != nil {
			return nil, err
		}
		return src, nil
	})
	reg.Register(SourceCached, func(rate int) (audio.Source, error) {
		src, err := cached.New(rate)
		if err != nil {
			return nil, err
		}
		return src, nil
	})
	reg.Register(SourceTone, func(rate int) (audio.Source, error) {
		src, err := tone.New(rate)
		if err != nil {
			return nil, err
		}
		return src, nil
	})
	return reg
}
