// SPDX-License-Identifier: EPL-2.0

package fusion

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Result tells the reactor whether a listener wants further messages.
type Result int

const (
	RSOk Result = iota
	RSRemove
)

// Listener receives a reactor message.
type Listener[M any] func(msg M) Result

// Reaction is the handle of an attached listener.
type Reaction[M any] struct {
	fn      Listener[M]
	removed atomic.Bool
}

// Reactor fans messages out to listeners. Dispatch works on a snapshot, so
// listeners may attach or detach from inside a callback.
type Reactor[M any] struct {
	mtx  sync.Mutex
	list atomic.Pointer[[]*Reaction[M]]
}

func NewReactor[M any]() *Reactor[M] {
	r := &Reactor[M]{}
	r.list.Store(&[]*Reaction[M]{})
	return r
}

func (r *Reactor[M]) Attach(fn Listener[M]) *Reaction[M] {
	reaction := &Reaction[M]{fn: fn}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	next := append(slices.Clone(*r.list.Load()), reaction)
	r.list.Store(&next)
	return reaction
}

// Detach removes reaction. A dispatch already in progress skips it too.
func (r *Reactor[M]) Detach(reaction *Reaction[M]) {
	if reaction == nil || reaction.removed.Swap(true) {
		return
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	next := slices.DeleteFunc(slices.Clone(*r.list.Load()), func(x *Reaction[M]) bool {
		return x == reaction
	})
	r.list.Store(&next)
}

// Len returns the number of attached listeners.
func (r *Reactor[M]) Len() int { return len(*r.list.Load()) }

// Dispatch delivers msg to every listener and returns how many received it.
func (r *Reactor[M]) Dispatch(msg M) int {
	delivered := 0
	for _, reaction := range *r.list.Load() {
		if reaction.removed.Load() {
			continue
		}
		delivered++
		if r.call(reaction, msg) == RSRemove {
			r.Detach(reaction)
		}
	}
	return delivered
}

func (r *Reactor[M]) call(reaction *Reaction[M], msg M) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			log.Warnf("Listener panicked, removing it: %v", p)
			res = RSRemove
		}
	}()
	return reaction.fn(msg)
}
