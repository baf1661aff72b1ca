// SPDX-License-Identifier: EPL-2.0

package core

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/mix"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"pool size", func(c *Config) { c.PoolSize = 0 }},
		{"max buffers", func(c *Config) { c.MaxBuffers = -1 }},
		{"max playbacks", func(c *Config) { c.MaxPlaybacks = 0 }},
		{"master volume", func(c *Config) { c.MasterVolume = 1.5 }},
		{"local volume", func(c *Config) { c.LocalVolume = -0.1 }},
		{"representation", func(c *Config) { c.Representation = 7 }},
		{"device rate", func(c *Config) { c.Device.Rate = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), audio.ErrInvalidArgument)
		})
	}
}

func TestCreateBuffer_Validation(t *testing.T) {
	t.Parallel()

	c := newTestCore(t, testConfig(), nil)
	owner := fusion.NewOwner()

	for _, args := range []struct {
		length int
		mode   audio.ChannelMode
		format audio.SampleFormat
		rate   int
	}{
		{0, audio.ModeMono, audio.FormatS16, 44100},
		{-5, audio.ModeMono, audio.FormatS16, 44100},
		{10, audio.ModeUnknown, audio.FormatS16, 44100},
		{10, audio.ModeMono, audio.FormatUnknown, 44100},
		{10, audio.ModeMono, audio.FormatS16, 0},
	} {
		_, err := c.CreateBuffer(owner, args.length, args.mode, args.format, args.rate)
		assert.ErrorIs(t, err, audio.ErrInvalidArgument)
	}
	assert.Zero(t, c.Buffers())
}

func TestBuffer_Shape(t *testing.T) {
	t.Parallel()

	c := newTestCore(t, testConfig(), nil)
	b, err := c.CreateBuffer(fusion.NewOwner(), 100, audio.ModeSurround51, audio.FormatS24, 48000)
	require.NoError(t, err)

	assert.Equal(t, 100, b.Length())
	assert.Equal(t, audio.ModeSurround51, b.Mode())
	assert.Equal(t, audio.FormatS24, b.Format())
	assert.Equal(t, 48000, b.Rate())
	assert.Equal(t, 18, b.BytesPerFrame())
	assert.Equal(t, fusion.StateActive, b.State())
	assert.GreaterOrEqual(t, c.ArenaInUse(), 1800)

	data, err := b.Lock(0, 0)
	require.NoError(t, err)
	assert.Len(t, data, 1800)
	assert.Equal(t, make([]byte, 1800), data)
}

func TestBuffer_LockRegions(t *testing.T) {
	t.Parallel()

	c := newTestCore(t, testConfig(), nil)
	b, err := c.CreateBuffer(fusion.NewOwner(), 64, audio.ModeStereo, audio.FormatS16, testRate)
	require.NoError(t, err)

	all, err := b.Lock(0, 0)
	require.NoError(t, err)
	for i := range all {
		all[i] = byte(i)
	}
	b.Unlock()

	for _, tt := range []struct{ pos, length, want int }{
		{0, 0, 64},
		{0, 64, 64},
		{10, 0, 54},
		{10, 5, 5},
		{63, 1, 1},
		{63, 0, 1},
	} {
		region, err := b.Lock(tt.pos, tt.length)
		require.NoError(t, err)
		assert.Len(t, region, tt.want*4, "pos %d length %d", tt.pos, tt.length)
		assert.True(t, bytes.Equal(all[tt.pos*4:tt.pos*4+tt.want*4], region))
		b.Unlock()
		b.Unlock()
	}

	for _, tt := range []struct{ pos, length int }{
		{-1, 0}, {64, 0}, {0, 65}, {60, 5}, {0, -1},
	} {
		_, err := b.Lock(tt.pos, tt.length)
		assert.ErrorIs(t, err, audio.ErrInvalidArgument, "pos %d length %d", tt.pos, tt.length)
	}
}

func TestBuffer_OutOfMemoryReleasesSlot(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.PoolSize = 4096
	c := newTestCore(t, cfg, nil)
	owner := fusion.NewOwner()

	_, err := c.CreateBuffer(owner, 4096, audio.ModeMono, audio.FormatS16, testRate)
	require.ErrorIs(t, err, audio.ErrOutOfMemory)
	assert.Zero(t, c.Buffers())
	assert.Zero(t, c.ArenaInUse())
	assert.Zero(t, owner.Held())

	b, err := c.CreateBuffer(owner, 2048, audio.ModeMono, audio.FormatS16, testRate)
	require.NoError(t, err)
	assert.Equal(t, 4096, c.ArenaInUse())
	b.Unref(owner)
}

func TestBuffer_PoolFull(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MaxBuffers = 1
	c := newTestCore(t, cfg, nil)
	owner := fusion.NewOwner()

	b, err := c.CreateBuffer(owner, 16, audio.ModeMono, audio.FormatU8, testRate)
	require.NoError(t, err)

	_, err = c.CreateBuffer(owner, 16, audio.ModeMono, audio.FormatU8, testRate)
	assert.ErrorIs(t, err, audio.ErrOutOfMemory)

	b.Unref(owner)
	_, err = c.CreateBuffer(owner, 16, audio.ModeMono, audio.FormatU8, testRate)
	assert.NoError(t, err)
}

func TestBuffer_UnrefFreesStorage(t *testing.T) {
	t.Parallel()

	c := newTestCore(t, testConfig(), nil)
	owner, other := fusion.NewOwner(), fusion.NewOwner()

	b := constBuffer(t, c, owner, 1000, 1)
	require.NoError(t, b.Ref(other))

	b.Unref(owner)
	assert.Equal(t, 1, c.Buffers())
	assert.NotZero(t, c.ArenaInUse())

	b.Unref(other)
	assert.Zero(t, c.Buffers())
	assert.Zero(t, c.ArenaInUse())
	assert.ErrorIs(t, b.Ref(other), audio.ErrDestroyed)

	_, err := b.Lock(0, 0)
	assert.ErrorIs(t, err, audio.ErrDestroyed)
}

func TestBuffer_MixTo(t *testing.T) {
	t.Parallel()

	c := newTestCore(t, testConfig(), nil)
	b := constBuffer(t, c, fusion.NewOwner(), 16384, 100)
	acc := c.Engine().NewAccumulator(audio.ModeMono, 8192)

	res, err := b.MixTo(acc, 44100, 8192, 0, -1, mix.PitchOne, unity())
	require.NoError(t, err)
	assert.Equal(t, 8192, res.Pos)
	assert.Equal(t, 8192, res.Written)

	acc.Clear()
	res, err = b.MixTo(acc, 44100, 1000, 16000, -1, mix.PitchOne, unity())
	require.NoError(t, err)
	assert.Equal(t, 616, res.Pos)

	acc.Clear()
	res, err = b.MixTo(acc, 44100, 200, 0, 100, mix.PitchOne, unity())
	assert.ErrorIs(t, err, audio.ErrBufferEmpty)
	assert.Equal(t, 100, res.Written)
	assert.Equal(t, 100, res.Pos)
	assert.InDelta(t, 100.0/32768, acc.Float(99, 0), 1e-9)
	assert.Zero(t, acc.Float(100, 0))
}
