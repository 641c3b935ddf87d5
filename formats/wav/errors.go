// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrInvalidSampleRate   = errors.New("invalid sample rate")
	ErrUnsupportedChannels = errors.New("only mono and stereo are supported")
	ErrPartialFrame        = errors.New("sample count is not a whole number of frames")
)
