// SPDX-License-Identifier: EPL-2.0

// Package utils holds sample format conversions shared by the encoders and
// device backends.
package utils
