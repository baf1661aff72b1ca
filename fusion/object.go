// SPDX-License-Identifier: EPL-2.0

package fusion

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/soundcore/audio"
)

// Object is a reference counted registry entry carrying a payload.
type Object[T any] struct {
	pool    *Pool[T]
	id      uint32
	refs    atomic.Int32
	state   atomic.Int32
	creator *Owner

	// Data is the payload. It is zeroed on creation and owned by whoever
	// manages the object's lifecycle.
	Data T
}

// ID is the slot index. IDs are reused after destruction.
func (o *Object[T]) ID() uint32 { return o.id }

func (o *Object[T]) State() State { return State(o.state.Load()) }

// Refs returns the current reference count.
func (o *Object[T]) Refs() int { return int(o.refs.Load()) }

// Creator returns the owner the object was created for, or nil.
func (o *Object[T]) Creator() *Owner { return o.creator }

func (o *Object[T]) String() string {
	return fmt.Sprintf("%s#%d", o.pool.name, o.id)
}

// Activate makes an initialised object visible to Enumerate.
func (o *Object[T]) Activate() {
	o.state.CompareAndSwap(int32(StateInit), int32(StateActive))
}

// Ref takes a reference on behalf of owner, which may be nil for references
// held by the core itself. Referencing a destroyed object fails.
func (o *Object[T]) Ref(owner *Owner) error {
	for {
		n := o.refs.Load()
		if n <= 0 {
			return fmt.Errorf("ref %s: %w", o, audio.ErrDestroyed)
		}
		if o.refs.CompareAndSwap(n, n+1) {
			break
		}
	}

	if owner != nil && !owner.add(o, false) {
		o.Unref(nil)
		return fmt.Errorf("ref %s: owner %s exited: %w", o, owner, audio.ErrDestroyed)
	}
	return nil
}

// Unref drops a reference taken by owner. The last reference runs the
// destructor and returns the slot to its pool.
func (o *Object[T]) Unref(owner *Owner) {
	if owner != nil && !owner.drop(o) {
		// the owner already released it on exit
		return
	}
	o.release(1)
}

func (o *Object[T]) release(n int32) {
	left := o.refs.Add(-n)
	switch {
	case left > 0:
		return
	case left < 0:
		panic(fmt.Sprintf("fusion: %s reference count below zero", o))
	}

	prev := State(o.state.Swap(int32(StateDestroyed)))
	if prev == StateDestroyed {
		panic(fmt.Sprintf("fusion: %s destroyed twice", o))
	}
	if o.creator != nil {
		o.creator.forget(o)
	}

	log.Tracef("Destroying %s (%s)", o, prev)
	if o.pool.destructor != nil {
		o.pool.destructor(o, prev == StateZombie)
	}
	o.pool.remove(o)
}

func (o *Object[T]) zombify() {
	for {
		s := o.state.Load()
		if s == int32(StateDestroyed) || s == int32(StateZombie) {
			return
		}
		if o.state.CompareAndSwap(s, int32(StateZombie)) {
			log.Debugf("%s became a zombie", o)
			return
		}
	}
}
