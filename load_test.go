// SPDX-License-Identifier: EPL-2.0

package soundcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/internal/audiotest"
)

func TestLoadBuffer(t *testing.T) {
	t.Parallel()

	s, _ := newTestSound(t)
	src := audiotest.NewRampSource(22050, 2, 1000)

	buf, err := LoadBuffer(s, src, audio.FormatS16)
	require.NoError(t, err)
	assert.Equal(t, 1000, buf.Length())
	assert.Equal(t, audio.ModeStereo, buf.Mode())
	assert.Equal(t, audio.FormatS16, buf.Format())
	assert.Equal(t, 22050, buf.Rate())
	assert.False(t, src.Closed())

	data, frames, err := buf.Lock()
	require.NoError(t, err)
	defer buf.Unlock()
	require.Equal(t, 1000, frames)

	samples := samplesS16(data)
	for _, i := range []int{0, 1, 2, 999, 1998, 1999} {
		assert.InDelta(t, i, samples[i], 1, "sample %d", i)
	}
}

func TestLoadBuffer_DeviceFormat(t *testing.T) {
	t.Parallel()

	s, _ := newTestSound(t)
	buf, err := LoadBuffer(s, audiotest.NewConstantSource(testRate, 1, 10, 0.5), audio.FormatUnknown)
	require.NoError(t, err)
	assert.Equal(t, audio.FormatS16, buf.Format())
	assert.Equal(t, audio.ModeMono, buf.Mode())
}

func TestLoadBuffer_FoldsWideSources(t *testing.T) {
	t.Parallel()

	s, _ := newTestSound(t)
	buf, err := LoadBuffer(s, audiotest.NewConstantSource(48000, 8, 300, 0.5), audio.FormatFloat)
	require.NoError(t, err)
	assert.Equal(t, audio.ModeMono, buf.Mode())
	assert.Equal(t, 300, buf.Length())
}

func TestLoadBuffer_Empty(t *testing.T) {
	t.Parallel()

	s, _ := newTestSound(t)
	_, err := LoadBuffer(s, audiotest.NewSilentSource(testRate, 1, 0), audio.FormatS16)
	assert.ErrorIs(t, err, audio.ErrInvalidArgument)
	assert.Zero(t, s.Core().Buffers())
}

func TestLoadBuffer_ReadError(t *testing.T) {
	t.Parallel()

	s, _ := newTestSound(t)
	src := audiotest.NewSineSource(testRate, 1, 1000, 440).FailAfter(100, audiotest.ErrInjected)

	_, err := LoadBuffer(s, src, audio.FormatS16)
	assert.ErrorIs(t, err, audiotest.ErrInjected)
	assert.Zero(t, s.Core().Buffers())
}

func TestLoadBuffer_OutOfMemory(t *testing.T) {
	t.Parallel()

	s, _ := newTestSound(t)
	_, err := LoadBuffer(s, audiotest.NewSilentSource(48000, 6, 48000*5), audio.FormatFloat)
	assert.ErrorIs(t, err, audio.ErrOutOfMemory)
	assert.Zero(t, s.Core().ArenaInUse())
}

func TestLoadResampled(t *testing.T) {
	t.Parallel()

	s, _ := newTestSound(t)

	buf, err := LoadResampled(s, audiotest.NewConstantSource(16000, 2, 1600, 0.5), audio.FormatS16, testRate)
	require.NoError(t, err)
	assert.Equal(t, testRate, buf.Rate())
	assert.InDelta(t, 800, buf.Length(), 20)

	buf, err = LoadResampled(s, audiotest.NewConstantSource(testRate, 1, 100, 0.5), audio.FormatS16, testRate)
	require.NoError(t, err)
	assert.Equal(t, 100, buf.Length())

	_, err = LoadResampled(s, audiotest.NewConstantSource(testRate, 1, 100, 0.5), audio.FormatS16, 0)
	assert.ErrorIs(t, err, audio.ErrInvalidArgument)
}
