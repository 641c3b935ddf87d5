// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidFrames     = errors.New("frame count must be positive")
	ErrInvalidCapacity   = errors.New("capacity must be positive")
)
