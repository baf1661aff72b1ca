// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/internal/audiotest"
)

func TestMonoMixer_Passthrough(t *testing.T) {
	t.Parallel()

	m := NewMonoMixer(audiotest.NewConstantSource(8000, 1, 100, 0.5))
	buf := make([]float32, 10)
	n, err := m.ReadSamples(buf)

	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, float32(0.5), buf[9])
}

func TestMonoMixer_Average(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channels int
		want     float32
	}{
		{2, 0.45}, // (0.4+0.5)/2
		{4, 0.55}, // (0.4+0.5+0.6+0.7)/4
		{8, 0.75}, // 0.4 .. 1.1
	}

	for _, tt := range tests {
		src := audiotest.NewMockSource(8000, tt.channels, 50, func(_, ch int) float32 {
			return 0.4 + 0.1*float32(ch)
		})
		m := NewMonoMixer(src)
		assert.Equal(t, 1, m.Channels())

		buf := make([]float32, 20)
		n, err := m.ReadSamples(buf)
		require.NoError(t, err)
		require.Equal(t, 20, n)
		for i := range n {
			assert.InDelta(t, tt.want, buf[i], 1e-5)
		}
	}
}

func TestMonoMixer_EOF(t *testing.T) {
	t.Parallel()

	m := NewMonoMixer(audiotest.NewConstantSource(8000, 2, 5, 0.2))
	buf := make([]float32, 16)

	n, err := m.ReadSamples(buf)
	assert.Equal(t, 5, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = m.ReadSamples(buf)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestMonoMixer_CloseForwards(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 2, 5)
	require.NoError(t, NewMonoMixer(src).Close())
	assert.True(t, src.Closed())
}
