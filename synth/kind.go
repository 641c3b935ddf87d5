// SPDX-License-Identifier: EPL-2.0

package synth

import (
	"fmt"
	"strings"
)

// Kind identifies one of the built-in sound effects.
type Kind uint8

const (
	Click Kind = iota
	Beep
	Explosion

	// KindCount is the number of sound kinds; use it to size per-kind tables.
	KindCount
)

var kindNames = [KindCount]string{
	Click:     "click",
	Beep:      "beep",
	Explosion: "explosion",
}

// canonical durations in milliseconds
var kindDurationsMs = [KindCount]uint64{
	Click:     10,
	Beep:      100,
	Explosion: 500,
}

// Kinds returns all sound kinds in declaration order.
func Kinds() []Kind {
	return []Kind{Click, Beep, Explosion}
}

func (k Kind) Valid() bool { return k < KindCount }

func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// DurationMs returns the canonical length of the sound, or 0 for an invalid kind.
func (k Kind) DurationMs() uint64 {
	if !k.Valid() {
		return 0
	}
	return kindDurationsMs[k]
}

// ParseKind maps a sound name ("click", "beep", "explosion") to its Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// DurationSamples returns the number of samples kind lasts at sampleRate.
// Integer arithmetic keeps the result exact: 441, 4410 and 22050 samples at
// 44.1 kHz.
func DurationSamples(kind Kind, sampleRate int) uint64 {
	if sampleRate <= 0 {
		return 0
	}
	return kind.DurationMs() * uint64(sampleRate) / 1000
}

// Amplitudes the convenience triggers play each kind at.
const (
	DefaultClickAmplitude     float32 = 0.5
	DefaultBeepAmplitude      float32 = 0.3
	DefaultExplosionAmplitude float32 = 1.0
)

// DefaultAmplitude returns the convenience amplitude for kind, or 0 for an
// invalid kind.
func (k Kind) DefaultAmplitude() float32 {
	switch k {
	case Click:
		return DefaultClickAmplitude
	case Beep:
		return DefaultBeepAmplitude
	case Explosion:
		return DefaultExplosionAmplitude
	}
	return 0
}
