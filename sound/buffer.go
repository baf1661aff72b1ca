// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"fmt"
	"sync"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/core"
	"github.com/ik5/soundcore/mix"
)

// PlayFlags select how Buffer.Play runs.
type PlayFlags int

const (
	// PlayLooping repeats the buffer until Stop.
	PlayLooping PlayFlags = 1 << iota
	// PlayCycle plays one full turn from the position back to it.
	PlayCycle
	// PlayRewind plays backwards.
	PlayRewind

	playFlags = PlayLooping | PlayCycle | PlayRewind
)

// Buffer is a client handle on a core buffer.
type Buffer struct {
	sound *Sound
	buf   *core.Buffer

	mtx     sync.Mutex
	pos     int
	locked  bool
	looping *core.Playback
}

func (b *Buffer) Core() *core.Buffer { return b.buf }

func (b *Buffer) Length() int { return b.buf.Length() }

func (b *Buffer) Mode() audio.ChannelMode { return b.buf.Mode() }

func (b *Buffer) Format() audio.SampleFormat { return b.buf.Format() }

func (b *Buffer) Rate() int { return b.buf.Rate() }

// Lock returns the samples from the handle position to the end of the
// buffer and their frame count. A second Lock before Unlock fails.
func (b *Buffer) Lock() ([]byte, int, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if b.locked {
		return nil, 0, fmt.Errorf("lock %s: %w", b.buf, audio.ErrBusy)
	}
	data, err := b.buf.Lock(b.pos, 0)
	if err != nil {
		return nil, 0, err
	}
	b.locked = true
	return data, b.buf.Length() - b.pos, nil
}

// Unlock releases a lock taken by Lock. Unlocking an unlocked handle is a
// no-op.
func (b *Buffer) Unlock() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if !b.locked {
		return nil
	}
	b.locked = false
	b.buf.Unlock()
	return nil
}

// SetPosition moves the handle position used by Lock and Play.
func (b *Buffer) SetPosition(frame int) error {
	if frame < 0 || frame >= b.buf.Length() {
		return fmt.Errorf("position %d of %s: %w", frame, b.buf, audio.ErrInvalidArgument)
	}

	b.mtx.Lock()
	b.pos = frame
	b.mtx.Unlock()
	return nil
}

func (b *Buffer) Position() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.pos
}

// Play starts a playback of the buffer from the handle position. Only a
// looping play can be stopped again, and there is at most one per handle.
func (b *Buffer) Play(flags PlayFlags) error {
	if flags&^playFlags != 0 {
		return fmt.Errorf("play %s with flags %#x: %w", b.buf, int(flags), audio.ErrInvalidArgument)
	}

	b.mtx.Lock()
	defer b.mtx.Unlock()

	looping := flags&PlayLooping != 0
	if looping && b.looping != nil {
		return fmt.Errorf("play %s: already looping: %w", b.buf, audio.ErrBusy)
	}

	pb, err := b.sound.core.CreatePlayback(b.sound.owner, b.buf, false)
	if err != nil {
		return err
	}

	stop := 0
	switch {
	case looping:
		stop = -1
	case flags&PlayCycle != 0:
		stop = b.pos
	}
	pitch := mix.PitchOne
	if flags&PlayRewind != 0 {
		pitch = -pitch
	}

	err = pb.SetPosition(b.pos)
	if err == nil {
		err = pb.SetStop(stop)
	}
	if err == nil {
		err = pb.SetPitch(pitch)
	}
	if err == nil {
		err = pb.Start(true)
	}
	if err != nil || !looping {
		// the playlist keeps a started one shot alive
		pb.Unref(b.sound.owner)
		return err
	}

	b.looping = pb
	return nil
}

// Stop halts the looping play started by Play.
func (b *Buffer) Stop() error {
	b.mtx.Lock()
	pb := b.looping
	b.looping = nil
	b.mtx.Unlock()

	if pb == nil {
		return nil
	}
	defer pb.Unref(b.sound.owner)
	return pb.Stop(true)
}

// CreatePlayback returns a playback with full control over the buffer.
func (b *Buffer) CreatePlayback() (*Playback, error) {
	pb, err := b.sound.core.CreatePlayback(b.sound.owner, b.buf, true)
	if err != nil {
		return nil, err
	}
	return newPlayback(b.sound, pb), nil
}

// Release stops a looping play and drops the handle's reference.
func (b *Buffer) Release() error {
	err := b.Stop()
	b.buf.Unref(b.sound.owner)
	return err
}
