// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
)

func TestRing_WrapAround(t *testing.T) {
	t.Parallel()

	q := newRing(8, 0)
	assert.Equal(t, 8, q.free())

	assert.Equal(t, 6, q.write([]byte{1, 2, 3, 4, 5, 6}))
	p := make([]byte, 4)
	n, err := q.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{1, 2, 3, 4}, p)

	assert.Equal(t, 6, q.write([]byte{7, 8, 9, 10, 11, 12, 13}))
	assert.Zero(t, q.free())
	assert.Equal(t, 8, q.queued())

	p = make([]byte, 8)
	q.Read(p)
	assert.Equal(t, []byte{5, 6, 7, 8, 9, 10, 11, 12}, p)
	assert.Zero(t, q.underruns)
}

func TestRing_UnderrunPadsSilence(t *testing.T) {
	t.Parallel()

	q := newRing(16, 0x80)
	q.write([]byte{1, 2})

	p := make([]byte, 5)
	n, err := q.Read(p)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte{1, 2, 0x80, 0x80, 0x80}, p)
	assert.Equal(t, 1, q.underruns)

	q.write([]byte{3})
	q.reset()
	assert.Zero(t, q.queued())
}

func TestNegotiate(t *testing.T) {
	t.Parallel()

	cfg := device.DefaultConfig()
	cfg.Mode = audio.ModeSurround51
	cfg.Format = audio.FormatS24

	got := negotiate(cfg)
	assert.Equal(t, audio.ModeStereo, got.Mode)
	assert.Equal(t, audio.FormatS16, got.Format)
	assert.Equal(t, cfg.Rate, got.Rate)

	cfg.Mode = audio.ModeMono
	cfg.Format = audio.FormatFloat
	got = negotiate(cfg)
	assert.Equal(t, audio.ModeMono, got.Mode)
	assert.Equal(t, audio.FormatFloat, got.Format)

	assert.Equal(t, byte(0x80), silence(audio.FormatU8))
	assert.Equal(t, byte(0), silence(audio.FormatS16))
}
