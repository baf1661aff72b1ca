// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfMemory     = errors.New("out of shared memory")
	ErrBusy            = errors.New("resource busy")
	ErrUnsupported     = errors.New("unsupported operation")
	ErrDestroyed       = errors.New("object destroyed")

	// ErrBufferEmpty is not a failure: the mixing call that returns it was the
	// last one for its playback.
	ErrBufferEmpty = errors.New("buffer empty")
)
