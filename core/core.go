// SPDX-License-Identifier: EPL-2.0

package core

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ik5/soundcore/audio"
	"github.com/ik5/soundcore/device"
	"github.com/ik5/soundcore/fusion"
	"github.com/ik5/soundcore/internal/shm"
	"github.com/ik5/soundcore/mix"
)

type pendingNote struct {
	pb   *Playback
	note Notification
}

// Core is one sound session.
type Core struct {
	id     uuid.UUID
	cfg    Config
	dev    device.Device
	info   device.Info
	engine mix.Engine
	arena  *shm.Arena

	buffers   *fusion.Pool[Buffer]
	playbacks *fusion.Pool[Playback]

	// mtx is the playlist lock. It guards the playlist, the volumes and the
	// mixer visible state of every Playback.
	mtx      sync.Mutex
	playlist []*Playback
	master   float32
	local    float32
	closed   bool
	running  bool
	reap     chan *Playback

	// period serialises mixing passes and owns everything below.
	period   sync.Mutex
	acc      *mix.Accumulator
	dither   *mix.Dither
	pending  []pendingNote
	finished []*Playback

	suspended atomic.Bool
	forking   atomic.Bool
}

// New opens the device named by cfg.DeviceName, or the first working one,
// and starts a session on it.
func New(cfg Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dev, info, err := device.Open(cfg.DeviceName, cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}

	c, err := newCore(cfg, dev, info)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return c, nil
}

// NewWithDevice opens dev with cfg.Device and starts a session on it.
func NewWithDevice(cfg Config, dev device.Device) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	info, err := dev.Open(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("core: open device: %w", err)
	}

	c, err := newCore(cfg, dev, info)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return c, nil
}

func newCore(cfg Config, dev device.Device, info device.Info) (*Core, error) {
	if err := info.Config.Validate(); err != nil {
		return nil, fmt.Errorf("core: device %s negotiated: %w", info.Driver, err)
	}

	engine, err := mix.NewEngine(cfg.Representation)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}

	arena, err := shm.New(cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}

	c := &Core{
		id:     uuid.New(),
		cfg:    cfg,
		dev:    dev,
		info:   info,
		engine: engine,
		arena:  arena,
		master: 1,
		local:  cfg.LocalVolume,
		acc:    engine.NewAccumulator(info.Config.Mode, info.Config.PeriodFrames),
	}
	if cfg.Dither {
		c.dither = mix.NewDither(info.Config.Mode.Channels())
	}
	c.buffers = fusion.NewPool("buffer", cfg.MaxBuffers, c.destroyBuffer)
	c.playbacks = fusion.NewPool("playback", cfg.MaxPlaybacks, c.destroyPlayback)
	c.pending = make([]pendingNote, 0, cfg.MaxPlaybacks)
	c.finished = make([]*Playback, 0, cfg.MaxPlaybacks)

	if err := c.SetMasterVolume(cfg.MasterVolume); err != nil {
		arena.Close()
		return nil, err
	}

	log.Infof("Session %s on %s (%s): %d Hz %s %s, %d frame periods, %s mixing",
		c.id, info.Name, info.Driver, info.Config.Rate, info.Config.Mode,
		info.Config.Format, info.Config.PeriodFrames, engine.Representation())
	return c, nil
}

// ID is the session id.
func (c *Core) ID() uuid.UUID { return c.id }

// Info describes the opened device with its negotiated configuration.
func (c *Core) Info() device.Info { return c.info }

func (c *Core) Config() Config { return c.cfg }

func (c *Core) Engine() mix.Engine { return c.engine }

// Buffers returns the number of live buffers, zombies included.
func (c *Core) Buffers() int { return c.buffers.Len() }

// Playbacks returns the number of live playbacks, zombies included.
func (c *Core) Playbacks() int { return c.playbacks.Len() }

// Active returns the number of playbacks in the playlist.
func (c *Core) Active() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return len(c.playlist)
}

// ArenaInUse returns the bytes of sample storage currently allocated.
func (c *Core) ArenaInUse() int { return c.arena.InUse() }

// MasterVolume returns the session volume in [0,1].
func (c *Core) MasterVolume() float32 {
	if c.info.Caps&device.CapVolume != 0 {
		if v, err := c.dev.Volume(); err == nil {
			return v
		}
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.master
}

// SetMasterVolume sets the session volume. Devices with a hardware volume
// control get it directly; otherwise the mixer applies it.
func (c *Core) SetMasterVolume(v float32) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("master volume %v: %w", v, audio.ErrInvalidArgument)
	}

	if c.info.Caps&device.CapVolume != 0 {
		err := c.dev.SetVolume(v)
		if err == nil {
			c.mtx.Lock()
			c.master = 1
			c.mtx.Unlock()
			return nil
		}
		if !errors.Is(err, audio.ErrUnsupported) {
			return fmt.Errorf("master volume: %w", err)
		}
	}

	c.mtx.Lock()
	c.master = v
	c.mtx.Unlock()
	return nil
}

func (c *Core) LocalVolume() float32 {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.local
}

// SetLocalVolume sets the software volume applied on top of the master.
func (c *Core) SetLocalVolume(v float32) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("local volume %v: %w", v, audio.ErrInvalidArgument)
	}

	c.mtx.Lock()
	c.local = v
	c.mtx.Unlock()
	return nil
}

// Suspend pauses the audio thread and the device.
func (c *Core) Suspend() error {
	if c.suspended.Swap(true) {
		return nil
	}
	if err := c.dev.Suspend(); err != nil && !errors.Is(err, audio.ErrUnsupported) {
		c.suspended.Store(false)
		return fmt.Errorf("suspend: %w", err)
	}
	log.Debugf("Session %s suspended", c.id)
	return nil
}

func (c *Core) Resume() error {
	if !c.suspended.Load() {
		return nil
	}
	if err := c.dev.Resume(); err != nil && !errors.Is(err, audio.ErrUnsupported) {
		return fmt.Errorf("resume: %w", err)
	}
	c.suspended.Store(false)
	log.Debugf("Session %s resumed", c.id)
	return nil
}

func (c *Core) Suspended() bool { return c.suspended.Load() }

// OutputDelay is the number of mixed frames not yet audible.
func (c *Core) OutputDelay() int { return c.dev.OutputDelay() }

// HandleFork forwards a fork event to the device, holding the audio thread
// still while the process is split.
func (c *Core) HandleFork(action device.ForkAction, state device.ForkState) {
	if state == device.ForkPrepare {
		c.period.Lock()
		c.forking.Store(true)
		c.dev.HandleFork(action, state)
		return
	}

	c.dev.HandleFork(action, state)
	if c.forking.Swap(false) {
		c.period.Unlock()
	}
}

// Shutdown stops every playback, closes the device and releases the arena
// once the last buffer is gone. An emergency shutdown skips notifications,
// as listeners may belong to clients that are already dead.
func (c *Core) Shutdown(emergency bool) error {
	c.period.Lock()
	defer c.period.Unlock()

	c.mtx.Lock()
	if c.closed {
		c.mtx.Unlock()
		return nil
	}
	c.closed = true
	list := c.playlist
	c.playlist = nil

	notes := c.pending[:0]
	for _, pb := range list {
		pb.listed = false
		if pb.state == StatePlaying {
			pb.state = StateStopped
			if pb.notify {
				notes = append(notes, pendingNote{pb, pb.note(NotifyStop, 0)})
			}
		}
	}
	c.mtx.Unlock()

	log.Infof("Session %s shutting down (emergency %v), %d playbacks active", c.id, emergency, len(list))

	if !emergency {
		for _, n := range notes {
			n.pb.reactor.Dispatch(n.note)
		}
	}
	clear(notes)
	for _, pb := range list {
		pb.obj.Unref(nil)
	}

	errDev := c.dev.Close()
	errArena := c.arena.Close()
	return errors.Join(errDev, errArena)
}

// Closed reports whether Shutdown was called.
func (c *Core) Closed() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.closed
}

// release drops the playlist reference of a playback that left the list,
// on the reaper when the audio thread runs one.
func (c *Core) release(pb *Playback, reap chan *Playback) {
	if reap != nil {
		select {
		case reap <- pb:
			return
		default:
		}
	}
	pb.obj.Unref(nil)
}
