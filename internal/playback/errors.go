// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrInvalidCapacity   = errors.New("capacity must be positive")
	ErrNilSampleFunc     = errors.New("sample function is nil")
)
