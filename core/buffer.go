// SPDX-License-Identifier: EPL-2.0

package core

import (
	"fmt"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/internal/shm"
	"github.com/ik5/soundcore/mix"
)

// Buffer is PCM storage of a fixed shape in the session arena.
type Buffer struct {
	obj   *fusion.Object[Buffer]
	core  *Core
	block shm.Block
	src   mix.Source
	bpf   int
}

// CreateBuffer allocates a buffer of length frames for owner, who holds the
// returned reference.
func (c *Core) CreateBuffer(owner *fusion.Owner, length int, mode audio.ChannelMode,
	format audio.SampleFormat, rate int) (*Buffer, error) {
	switch {
	case length <= 0:
		return nil, fmt.Errorf("buffer length %d: %w", length, audio.ErrInvalidArgument)
	case !mode.Valid():
		return nil, fmt.Errorf("buffer mode %s: %w", mode, audio.ErrInvalidArgument)
	case !format.Valid():
		return nil, fmt.Errorf("buffer format %s: %w", format, audio.ErrInvalidArgument)
	case rate <= 0:
		return nil, fmt.Errorf("buffer rate %d: %w", rate, audio.ErrInvalidArgument)
	}
	if c.Closed() {
		return nil, fmt.Errorf("create buffer: session %s: %w", c.id, audio.ErrDestroyed)
	}

	obj, err := c.buffers.Create(owner)
	if err != nil {
		return nil, err
	}

	b := &obj.Data
	b.obj, b.core = obj, c
	b.bpf = audio.BytesPerFrame(format, mode)

	size := length * b.bpf
	block, err := c.arena.Alloc(size)
	if err != nil {
		obj.Unref(owner)
		return nil, fmt.Errorf("buffer of %d bytes: %w: %w", size, audio.ErrOutOfMemory, err)
	}

	b.block = block
	b.src = mix.Source{
		Data:   block.Data[:size],
		Length: length,
		Format: format,
		Mode:   mode,
		Rate:   rate,
	}
	obj.Activate()

	log.Debugf("Created %s: %d frames %s %s %d Hz", obj, length, mode, format, rate)
	return b, nil
}

func (c *Core) destroyBuffer(obj *fusion.Object[Buffer], zombie bool) {
	b := &obj.Data
	if b.src.Data == nil {
		return
	}
	if err := c.arena.Free(b.block); err != nil {
		log.Errorf("Releasing storage of %s: %v", obj, err)
	}
	if zombie {
		log.Debugf("Destroyed zombie %s", obj)
	}
	b.src.Data = nil
}

func (b *Buffer) ID() uint32 { return b.obj.ID() }

func (b *Buffer) String() string { return b.obj.String() }

// Length in frames.
func (b *Buffer) Length() int { return b.src.Length }

func (b *Buffer) Mode() audio.ChannelMode { return b.src.Mode }

func (b *Buffer) Format() audio.SampleFormat { return b.src.Format }

func (b *Buffer) Rate() int { return b.src.Rate }

func (b *Buffer) BytesPerFrame() int { return b.bpf }

func (b *Buffer) State() fusion.State { return b.obj.State() }

// Ref takes another reference for owner.
func (b *Buffer) Ref(owner *fusion.Owner) error { return b.obj.Ref(owner) }

// Unref drops a reference of owner. The storage returns to the arena with
// the last one.
func (b *Buffer) Unref(owner *fusion.Owner) { b.obj.Unref(owner) }

// Lock returns the bytes of length frames starting at pos. A length of zero
// selects the rest of the buffer. Concurrent writers of one region must
// serialise themselves.
func (b *Buffer) Lock(pos, length int) ([]byte, error) {
	switch {
	case pos < 0 || pos >= b.src.Length:
		return nil, fmt.Errorf("lock %s at %d: %w", b, pos, audio.ErrInvalidArgument)
	case length < 0 || pos+length > b.src.Length:
		return nil, fmt.Errorf("lock %s: %d frames at %d: %w", b, length, pos, audio.ErrInvalidArgument)
	}
	if b.obj.State() == fusion.StateDestroyed || b.core.Closed() {
		return nil, fmt.Errorf("lock %s: %w", b, audio.ErrDestroyed)
	}

	if length == 0 {
		length = b.src.Length - pos
	}
	return b.src.Data[pos*b.bpf : (pos+length)*b.bpf], nil
}

// Unlock ends a Lock. It never fails.
func (b *Buffer) Unlock() {}

// MixTo adds the buffer, read from pos at pitch, into acc. It returns
// audio.ErrBufferEmpty with a valid result when stop was reached.
func (b *Buffer) MixTo(acc *mix.Accumulator, destRate, maxFrames, pos, stop, pitch int, gains *mix.Gains) (mix.Result, error) {
	p := mix.Params{
		Pos:       pos,
		Stop:      stop,
		Pitch:     pitch,
		MaxFrames: maxFrames,
		DestRate:  destRate,
		Gains:     gains,
	}
	return b.mix(acc, &p)
}

func (b *Buffer) mix(acc *mix.Accumulator, p *mix.Params) (mix.Result, error) {
	return b.core.engine.MixTo(acc, &b.src, p)
}
