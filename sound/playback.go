// SPDX-License-Identifier: EPL-2.0

package sound

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/core"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/mix"
)

// Playback is a client handle on a core playback.
type Playback struct {
	sound    *Sound
	pb       *core.Playback
	reaction *fusion.Reaction[core.Notification]

	// mtx guards the settings below and is the lock of cond.
	mtx       sync.Mutex
	cond      *sync.Cond
	volume    float32
	pan       float32
	pitch     float32
	direction int
}

func newPlayback(s *Sound, pb *core.Playback) *Playback {
	p := &Playback{
		sound:     s,
		pb:        pb,
		volume:    1,
		pitch:     1,
		direction: 1,
	}
	p.cond = sync.NewCond(&p.mtx)
	p.reaction = pb.Attach(p.notified)
	return p
}

// notified wakes waiters on start and stop. It runs on the mixing thread.
func (p *Playback) notified(n core.Notification) fusion.Result {
	if n.Flags&(core.NotifyStart|core.NotifyStop) != 0 {
		p.mtx.Lock()
		p.cond.Broadcast()
		p.mtx.Unlock()
	}
	return fusion.RSOk
}

func (p *Playback) Core() *core.Playback { return p.pb }

// Start plays from frame start until stop. A stop of -1 loops; a stop
// equal to start plays one full turn through the end of the buffer.
func (p *Playback) Start(start, stop int) error {
	n := p.pb.Buffer().Length()
	if start < 0 || start >= n {
		return fmt.Errorf("start %d of %s: %w", start, p.pb, audio.ErrInvalidArgument)
	}
	if stop < -1 || stop >= n {
		return fmt.Errorf("stop %d of %s: %w", stop, p.pb, audio.ErrInvalidArgument)
	}

	if err := p.pb.SetPosition(start); err != nil {
		return err
	}
	if err := p.pb.SetStop(stop); err != nil {
		return err
	}
	return p.pb.Start(true)
}

// Stop pauses the playback. Continue resumes it where it stopped.
func (p *Playback) Stop() error { return p.pb.Stop(false) }

func (p *Playback) Continue() error { return p.pb.Start(true) }

// Wait blocks until the playback is no longer playing or ctx is done.
// Waiting on a looping playback would never end and is refused.
func (p *Playback) Wait(ctx context.Context) error {
	if status, _ := p.pb.Status(); status&core.StatusLooping != 0 {
		return fmt.Errorf("wait %s: looping: %w", p.pb, audio.ErrUnsupported)
	}

	stop := context.AfterFunc(ctx, func() {
		p.mtx.Lock()
		p.cond.Broadcast()
		p.mtx.Unlock()
	})
	defer stop()

	p.mtx.Lock()
	defer p.mtx.Unlock()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.pb.State() != core.StatePlaying {
			return nil
		}
		p.cond.Wait()
	}
}

// Status returns the status flags and the position in frames.
func (p *Playback) Status() (core.Status, int) { return p.pb.Status() }

func checkLevel(what string, v float32) error {
	switch {
	case v != v || v < 0:
		return fmt.Errorf("%s %v: %w", what, v, audio.ErrInvalidArgument)
	case v > MaxLevel:
		return fmt.Errorf("%s %v: %w", what, v, audio.ErrUnsupported)
	}
	return nil
}

// levels spreads volume over the slots with the pan attenuating one side.
// Requires mtx.
func (p *Playback) levels() [audio.NumSlots]float32 {
	left, right := p.volume, p.volume
	switch {
	case p.pan > 0:
		left *= 1 - p.pan
	case p.pan < 0:
		right *= 1 + p.pan
	}
	return [audio.NumSlots]float32{left, right, p.volume, left, right, p.volume}
}

func (p *Playback) Volume() float32 {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.volume
}

func (p *Playback) SetVolume(v float32) error {
	if err := checkLevel("volume", v); err != nil {
		return err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	prev := p.volume
	p.volume = v
	if err := p.pb.SetVolume(p.levels()); err != nil {
		p.volume = prev
		return err
	}
	return nil
}

func (p *Playback) Pan() float32 {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.pan
}

// SetPan balances between left (-1) and right (1).
func (p *Playback) SetPan(pan float32) error {
	if pan != pan || pan < -1 || pan > 1 {
		return fmt.Errorf("pan %v: %w", pan, audio.ErrInvalidArgument)
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	prev := p.pan
	p.pan = pan
	if err := p.pb.SetVolume(p.levels()); err != nil {
		p.pan = prev
		return err
	}
	return nil
}

// corePitch requires mtx.
func (p *Playback) corePitch() int {
	return int(math.Round(float64(p.pitch)*mix.PitchOne)) * p.direction
}

// SetPitch sets the speed factor, 1 being the recorded speed.
func (p *Playback) SetPitch(v float32) error {
	if err := checkLevel("pitch", v); err != nil {
		return err
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	prev := p.pitch
	p.pitch = v
	if err := p.pb.SetPitch(p.corePitch()); err != nil {
		p.pitch = prev
		return err
	}
	return nil
}

// SetDirection plays forwards for 1 and backwards for -1.
func (p *Playback) SetDirection(dir int) error {
	if dir != 1 && dir != -1 {
		return fmt.Errorf("direction %d: %w", dir, audio.ErrInvalidArgument)
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	prev := p.direction
	p.direction = dir
	if err := p.pb.SetPitch(p.corePitch()); err != nil {
		p.direction = prev
		return err
	}
	return nil
}

// SetDownmix sets how much of the center and rear channels folds into the
// front when the device lacks them. The levels in [0,1] apply at once.
func (p *Playback) SetDownmix(center, rear float32) error {
	for _, v := range []float32{center, rear} {
		if v != v || v < 0 || v > 1 {
			return fmt.Errorf("downmix %v: %w", v, audio.ErrInvalidArgument)
		}
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	if err := p.pb.SetDownmix(center, rear); err != nil {
		return err
	}
	return p.pb.SetVolume(p.levels())
}

// Release drops the handle. A started playback plays on until it finishes.
func (p *Playback) Release() {
	p.pb.Detach(p.reaction)
	p.pb.Unref(p.sound.owner)
}
