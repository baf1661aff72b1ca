// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"
	"time"
)

// Clock paces a software sink at its nominal rate. It tracks how many
// committed frames the virtual hardware has consumed.
type Clock struct {
	mtx       sync.Mutex
	rate      int
	capacity  int
	start     time.Time
	committed int64
	suspended bool
	held      int64
	now       func() time.Time
}

// NewClock returns a clock consuming rate frames per second from a queue of
// capacity frames.
func NewClock(rate, capacity int) *Clock {
	return newClock(rate, capacity, time.Now)
}

func newClock(rate, capacity int, now func() time.Time) *Clock {
	return &Clock{rate: rate, capacity: capacity, start: now(), now: now}
}

func (c *Clock) played() int64 {
	if c.suspended {
		return c.held
	}
	p := c.held + int64(c.now().Sub(c.start))*int64(c.rate)/int64(time.Second)
	if p > c.committed {
		// underrun: the queue drained, restart the reference point
		c.held = c.committed
		c.start = c.now()
		return c.committed
	}
	return p
}

// Queued returns the frames committed but not yet consumed.
func (c *Clock) Queued() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return int(c.committed - c.played())
}

// Free returns the room left in the queue.
func (c *Clock) Free() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.capacity - int(c.committed-c.played())
}

func (c *Clock) Commit(frames int) {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	c.played()
	c.committed += int64(frames)
}

func (c *Clock) Suspend() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if !c.suspended {
		c.held = c.played()
		c.suspended = true
	}
}

func (c *Clock) Resume() {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	if c.suspended {
		c.suspended = false
		c.start = c.now()
	}
}
