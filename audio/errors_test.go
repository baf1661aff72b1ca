// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Distinct(t *testing.T) {
	t.Parallel()

	all := []error{
		ErrInvalidDstSize, ErrInvalidArgument, ErrOutOfMemory, ErrBusy,
		ErrUnsupported, ErrDestroyed, ErrBufferEmpty,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("create buffer: %w", ErrOutOfMemory)
	assert.ErrorIs(t, err, ErrOutOfMemory)

	joined := errors.Join(ErrInvalidArgument, errors.New("position 70000"))
	assert.ErrorIs(t, joined, ErrInvalidArgument)
	assert.Equal(t, "dst size must be multiple of channels", ErrInvalidDstSize.Error())
}
