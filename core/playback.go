// SPDX-License-Identifier: EPL-2.0

package core

import (
	"fmt"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/mix"
)

// MaxLevel is the highest gain a volume level is clamped to.
const MaxLevel = 64

// State is the lifecycle stage of a Playback.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StateStopped
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateStopped:
		return "stopped"
	case StateFinished:
		return "finished"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status flags of a Playback snapshot.
type Status int

const (
	StatusRunning Status = 1 << iota
	StatusLooping
)

// NotifyFlags tell what a Notification reports.
type NotifyFlags int

const (
	NotifyStart NotifyFlags = 1 << iota
	NotifyStop
	NotifyAdvance
)

// Notification is delivered to the listeners of a Playback.
type Notification struct {
	Flags    NotifyFlags
	Position int
	Stop     int
	// Num is the number of source frames advanced.
	Num int
}

// Playback is a cursor rendering a Buffer.
type Playback struct {
	obj     *fusion.Object[Playback]
	core    *Core
	buffer  *Buffer
	notify  bool
	reactor *fusion.Reactor[Notification]

	// guarded by the playlist lock
	state  State
	listed bool
	pos    int
	stop   int
	pitch  int
	levels [audio.NumSlots]float32
	local  float32
	center float32
	rear   float32

	// downmix in effect, captured by SetVolume
	mixCenter float32
	mixRear   float32

	gains  mix.Gains
	params mix.Params
}

// CreatePlayback binds a new playback to buf. owner holds the returned
// reference; the playback holds one on buf until it is destroyed. With
// notify unset no notifications are generated.
func (c *Core) CreatePlayback(owner *fusion.Owner, buf *Buffer, notify bool) (*Playback, error) {
	if buf == nil || buf.core != c {
		return nil, fmt.Errorf("create playback: foreign buffer: %w", audio.ErrInvalidArgument)
	}
	if c.Closed() {
		return nil, fmt.Errorf("create playback: session %s: %w", c.id, audio.ErrDestroyed)
	}
	if err := buf.obj.Ref(nil); err != nil {
		return nil, fmt.Errorf("create playback: %w", err)
	}

	obj, err := c.playbacks.Create(owner)
	if err != nil {
		buf.obj.Unref(nil)
		return nil, err
	}

	p := &obj.Data
	*p = Playback{
		obj:       obj,
		core:      c,
		buffer:    buf,
		notify:    notify,
		reactor:   fusion.NewReactor[Notification](),
		pitch:     mix.PitchOne,
		levels:    [audio.NumSlots]float32{1, 1, 1, 1, 1, 1},
		local:     1,
		center:    mix.DefaultDownmix,
		rear:      mix.DefaultDownmix,
		mixCenter: mix.DefaultDownmix,
		mixRear:   mix.DefaultDownmix,
	}
	obj.Activate()

	log.Debugf("Created %s on %s", obj, buf)
	return p, nil
}

func (c *Core) destroyPlayback(obj *fusion.Object[Playback], zombie bool) {
	p := &obj.Data
	if p.buffer == nil {
		return
	}
	if zombie {
		log.Debugf("Destroying zombie %s", obj)
	}
	p.buffer.obj.Unref(nil)
	p.buffer = nil
}

func (p *Playback) ID() uint32 { return p.obj.ID() }

func (p *Playback) String() string { return p.obj.String() }

func (p *Playback) Buffer() *Buffer { return p.buffer }

func (p *Playback) Notifies() bool { return p.notify }

func (p *Playback) ObjectState() fusion.State { return p.obj.State() }

func (p *Playback) Ref(owner *fusion.Owner) error { return p.obj.Ref(owner) }

func (p *Playback) Unref(owner *fusion.Owner) { p.obj.Unref(owner) }

// Attach registers a listener for notifications.
func (p *Playback) Attach(fn fusion.Listener[Notification]) *fusion.Reaction[Notification] {
	return p.reactor.Attach(fn)
}

func (p *Playback) Detach(r *fusion.Reaction[Notification]) { p.reactor.Detach(r) }

// note builds a notification from the current state. Requires the playlist
// lock.
func (p *Playback) note(flags NotifyFlags, num int) Notification {
	return Notification{Flags: flags, Position: p.pos, Stop: p.stop, Num: num}
}

func (p *Playback) lock() error {
	p.core.mtx.Lock()
	if p.core.closed || p.obj.State() == fusion.StateDestroyed {
		p.core.mtx.Unlock()
		return fmt.Errorf("%s: %w", p, audio.ErrDestroyed)
	}
	return nil
}

func (p *Playback) unlock() { p.core.mtx.Unlock() }

// Start sets the playback playing. With enable set it is inserted into the
// playlist if it is not there yet; without, it must already be listed.
func (p *Playback) Start(enable bool) error {
	if err := p.lock(); err != nil {
		return err
	}

	if !p.listed {
		if !enable {
			p.unlock()
			return fmt.Errorf("start %s: not in the playlist: %w", p, audio.ErrInvalidArgument)
		}
		if err := p.obj.Ref(nil); err != nil {
			p.unlock()
			return fmt.Errorf("start %s: %w", p, err)
		}
		p.core.playlist = append(p.core.playlist, p)
		p.listed = true
	}

	started := p.state != StatePlaying
	p.state = StatePlaying
	note := p.note(NotifyStart, 0)
	p.unlock()

	if started && p.notify {
		p.reactor.Dispatch(note)
	}
	log.Tracef("Started %s", p)
	return nil
}

// Stop halts the playback. With disable set it also leaves the playlist and
// the core drops its reference. Stopping a stopped playback does nothing.
func (p *Playback) Stop(disable bool) error {
	if err := p.lock(); err != nil {
		return err
	}

	stopped := p.state == StatePlaying
	if stopped {
		p.state = StateStopped
	}

	unlisted := false
	if disable && p.listed {
		p.core.playlist = removePlayback(p.core.playlist, p)
		p.listed = false
		unlisted = true
	}
	note := p.note(NotifyStop, 0)
	p.unlock()

	if stopped && p.notify {
		p.reactor.Dispatch(note)
	}
	if unlisted {
		p.obj.Unref(nil)
	}
	log.Tracef("Stopped %s", p)
	return nil
}

func removePlayback(list []*Playback, p *Playback) []*Playback {
	for i, x := range list {
		if x == p {
			copy(list[i:], list[i+1:])
			list[len(list)-1] = nil
			return list[:len(list)-1]
		}
	}
	return list
}

// SetPosition moves the cursor to frame.
func (p *Playback) SetPosition(frame int) error {
	if frame < 0 || frame >= p.buffer.Length() {
		return fmt.Errorf("position %d of %s: %w", frame, p, audio.ErrInvalidArgument)
	}
	if err := p.lock(); err != nil {
		return err
	}
	p.pos = frame
	p.unlock()
	return nil
}

// SetStop sets the frame the playback finishes at, or -1 to loop.
func (p *Playback) SetStop(frame int) error {
	if frame < -1 || frame >= p.buffer.Length() {
		return fmt.Errorf("stop %d of %s: %w", frame, p, audio.ErrInvalidArgument)
	}
	if err := p.lock(); err != nil {
		return err
	}
	p.stop = frame
	p.unlock()
	return nil
}

// SetStopWithin sets the stop point to frame if the cursor reaches it within
// ahead frames in its direction of travel. Otherwise the cursor already ran
// past frame, so the playback is stopped instead. It reports whether the stop
// point was set.
func (p *Playback) SetStopWithin(frame, ahead int) (bool, error) {
	n := p.buffer.Length()
	if frame < 0 || frame >= n {
		return false, fmt.Errorf("stop %d of %s: %w", frame, p, audio.ErrInvalidArgument)
	}
	if err := p.lock(); err != nil {
		return false, err
	}

	dist := frame - p.pos
	if p.pitch < 0 {
		dist = -dist
	}
	if dist = (dist%n + n) % n; dist > 0 && dist <= ahead {
		p.stop = frame
		p.unlock()
		return true, nil
	}

	stopped := p.state == StatePlaying
	if stopped {
		p.state = StateStopped
	}
	note := p.note(NotifyStop, 0)
	p.unlock()

	if stopped && p.notify {
		p.reactor.Dispatch(note)
	}
	log.Tracef("Stopped %s past frame %d", p, frame)
	return false, nil
}

// SetPitch sets the signed playback speed with mix.PitchBits fractional
// bits. Zero holds the cursor still.
func (p *Playback) SetPitch(pitch int) error {
	if err := p.lock(); err != nil {
		return err
	}
	p.pitch = pitch
	p.unlock()
	return nil
}

func clampLevel(v float32) float32 {
	switch {
	case v != v || v < 0:
		return 0
	case v > MaxLevel:
		return MaxLevel
	}
	return v
}

// SetVolume sets the gain of every slot, clamped to [0,MaxLevel]. The
// downmix coefficients set last are applied from here on.
func (p *Playback) SetVolume(levels [audio.NumSlots]float32) error {
	if err := p.lock(); err != nil {
		return err
	}
	for i, l := range levels {
		p.levels[i] = clampLevel(l)
	}
	p.mixCenter, p.mixRear = p.center, p.rear
	p.unlock()
	return nil
}

// SetLocalVolume sets a scale applied on top of the levels.
func (p *Playback) SetLocalVolume(v float32) error {
	if err := p.lock(); err != nil {
		return err
	}
	p.local = clampLevel(v)
	p.unlock()
	return nil
}

// SetDownmix stores the center and rear fold levels. They take effect with
// the next SetVolume.
func (p *Playback) SetDownmix(center, rear float32) error {
	if err := p.lock(); err != nil {
		return err
	}
	p.center, p.rear = clampLevel(center), clampLevel(rear)
	p.unlock()
	return nil
}

// Snapshot is a consistent copy of the mixer visible state.
type Snapshot struct {
	State    State
	Status   Status
	Position int
	Stop     int
	Pitch    int
	Levels   [audio.NumSlots]float32
	Local    float32
	Center   float32
	Rear     float32
}

func (p *Playback) Snapshot() Snapshot {
	p.core.mtx.Lock()
	defer p.core.mtx.Unlock()

	return Snapshot{
		State:    p.state,
		Status:   p.status(),
		Position: p.pos,
		Stop:     p.stop,
		Pitch:    p.pitch,
		Levels:   p.levels,
		Local:    p.local,
		Center:   p.center,
		Rear:     p.rear,
	}
}

func (p *Playback) status() Status {
	var s Status
	if p.state == StatePlaying {
		s |= StatusRunning
		if p.stop < 0 {
			s |= StatusLooping
		}
	}
	return s
}

// Status returns the status flags and the position.
func (p *Playback) Status() (Status, int) {
	p.core.mtx.Lock()
	defer p.core.mtx.Unlock()
	return p.status(), p.pos
}

func (p *Playback) State() State {
	p.core.mtx.Lock()
	defer p.core.mtx.Unlock()
	return p.state
}

// mix renders one period into acc. Requires the playlist lock and a
// playing state.
func (p *Playback) mix(acc *mix.Accumulator, frames, destRate int, scale float32) (mix.Result, bool) {
	p.gains = mix.NewGains(p.levels, scale*p.local, p.mixCenter, p.mixRear)
	p.params = mix.Params{
		Pos:       p.pos,
		Stop:      p.stop,
		Pitch:     p.pitch,
		MaxFrames: frames,
		DestRate:  destRate,
		Gains:     &p.gains,
	}

	res, err := p.buffer.mix(acc, &p.params)
	p.pos = res.Pos
	last := err == audio.ErrBufferEmpty
	if last {
		p.state = StateFinished
	}
	return res, last
}

// MixTo renders frames output frames into acc at destRate with the volume
// scaled by scale. It returns audio.ErrBufferEmpty when the playback
// finished. Playbacks that are not playing write nothing.
func (p *Playback) MixTo(acc *mix.Accumulator, destRate, frames int, scale float32) (int, error) {
	if err := p.lock(); err != nil {
		return 0, err
	}
	if p.state != StatePlaying {
		p.unlock()
		return 0, nil
	}

	res, last := p.mix(acc, frames, destRate, scale)
	flags := NotifyAdvance
	if last {
		flags = NotifyStop
	}
	note := p.note(flags, res.Consumed)
	p.unlock()

	if p.notify {
		p.reactor.Dispatch(note)
	}
	if last {
		return res.Written, audio.ErrBufferEmpty
	}
	return res.Written, nil
}
