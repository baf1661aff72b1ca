// SPDX-License-Identifier: EPL-2.0

package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/soundcore/audio"
)

// MixPeriod mixes every playing playback into the next device period and
// commits it. It returns the number of frames committed, which is zero when
// the device has no room.
func (c *Core) MixPeriod() (int, error) {
	c.period.Lock()
	defer c.period.Unlock()

	if c.Closed() {
		return 0, fmt.Errorf("mix period: session %s: %w", c.id, audio.ErrDestroyed)
	}

	buf, avail, err := c.dev.GetBuffer()
	if err != nil {
		return 0, fmt.Errorf("mix period: get buffer: %w", err)
	}
	frames := min(avail, c.acc.Frames())
	if frames <= 0 {
		return 0, nil
	}
	cfg := c.info.Config

	c.mtx.Lock()
	c.acc.Clear()
	scale := c.master * c.local

	kept := c.playlist[:0]
	for _, p := range c.playlist {
		switch p.state {
		case StatePlaying:
			res, last := p.mix(c.acc, frames, cfg.Rate, scale)
			if last {
				if p.notify {
					c.pending = append(c.pending, pendingNote{p, p.note(NotifyStop, res.Consumed)})
				}
				p.listed = false
				c.finished = append(c.finished, p)
				continue
			}
			if p.notify {
				c.pending = append(c.pending, pendingNote{p, p.note(NotifyAdvance, res.Consumed)})
			}
		case StateFinished:
			p.listed = false
			c.finished = append(c.finished, p)
			continue
		}
		kept = append(kept, p)
	}
	clear(c.playlist[len(kept):])
	c.playlist = kept
	reap := c.reap
	c.mtx.Unlock()

	c.engine.Render(buf, cfg.Format, c.acc, frames, c.dither)
	err = c.dev.CommitBuffer(frames)

	for _, n := range c.pending {
		n.pb.reactor.Dispatch(n.note)
	}
	clear(c.pending)
	c.pending = c.pending[:0]

	for _, p := range c.finished {
		log.Tracef("%s finished", p)
		c.release(p, reap)
	}
	clear(c.finished)
	c.finished = c.finished[:0]

	if err != nil {
		return 0, fmt.Errorf("mix period: commit %d frames: %w", frames, err)
	}
	return frames, nil
}

// Run is the audio thread. It mixes periods as the device frees room until
// ctx is cancelled or the session shuts down. Finished playbacks are
// released on a companion goroutine so destructors stay off the mixing
// path.
func (c *Core) Run(ctx context.Context) error {
	reap := make(chan *Playback, cap(c.finished))

	c.mtx.Lock()
	switch {
	case c.closed:
		c.mtx.Unlock()
		return fmt.Errorf("run: session %s: %w", c.id, audio.ErrDestroyed)
	case c.running:
		c.mtx.Unlock()
		return fmt.Errorf("run: session %s: %w", c.id, audio.ErrBusy)
	}
	c.running = true
	c.reap = reap
	c.mtx.Unlock()

	log.Debugf("Audio thread of session %s started", c.id)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer func() {
			// a pass running on another goroutine may still hold reap
			c.period.Lock()
			c.mtx.Lock()
			c.reap = nil
			c.running = false
			c.mtx.Unlock()
			c.period.Unlock()
			close(reap)
		}()
		return c.loop(gctx)
	})
	g.Go(func() error {
		for p := range reap {
			p.obj.Unref(nil)
		}
		return nil
	})

	err := g.Wait()
	log.Debugf("Audio thread of session %s stopped", c.id)
	if errors.Is(err, context.Canceled) || errors.Is(err, audio.ErrDestroyed) {
		return nil
	}
	return err
}

func (c *Core) loop(ctx context.Context) error {
	cfg := c.info.Config
	period := time.Duration(cfg.PeriodFrames) * time.Second / time.Duration(cfg.Rate)
	idle := max(period/4, time.Millisecond)

	timer := time.NewTimer(idle)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		wait := time.Duration(0)
		if c.suspended.Load() {
			wait = period
		} else {
			n, err := c.MixPeriod()
			if err != nil {
				return err
			}
			if n == 0 {
				wait = idle
			}
		}
		if wait == 0 {
			continue
		}

		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}
