// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrors_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidDstSize, "dst size must be multiple of channels"},
		{ErrUnknownSource, "unknown source"},
		{ErrInvalidSampleRate, "sample rate must be positive"},
	}

	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("registry: %w", ErrUnknownSource)
	if !errors.Is(wrapped, ErrUnknownSource) {
		t.Error("errors.Is() failed for wrapped ErrUnknownSource")
	}
	if errors.Is(wrapped, ErrInvalidSampleRate) {
		t.Error("errors.Is() matched the wrong sentinel")
	}
}
