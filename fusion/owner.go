// SPDX-License-Identifier: EPL-2.0

package fusion

import (
	"sync"

	"github.com/google/uuid"
)

type tracked interface {
	release(n int32)
	zombify()
}

// Owner identifies a client of the registry. References taken on behalf of
// an owner are dropped when it exits.
type Owner struct {
	id uuid.UUID

	mtx     sync.Mutex
	held    map[tracked]int32
	created map[tracked]struct{}
	exited  bool
}

func NewOwner() *Owner {
	return &Owner{
		id:      uuid.New(),
		held:    make(map[tracked]int32),
		created: make(map[tracked]struct{}),
	}
}

func (o *Owner) ID() uuid.UUID { return o.id }

func (o *Owner) String() string { return o.id.String() }

// Exited reports whether Exit was called.
func (o *Owner) Exited() bool {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	return o.exited
}

// Held returns the number of references the owner holds across all objects.
func (o *Owner) Held() int {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	var n int32
	for _, c := range o.held {
		n += c
	}
	return int(n)
}

func (o *Owner) add(t tracked, created bool) bool {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.exited {
		return false
	}
	o.held[t]++
	if created {
		o.created[t] = struct{}{}
	}
	return true
}

func (o *Owner) drop(t tracked) bool {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	c, ok := o.held[t]
	if !ok {
		return false
	}
	if c <= 1 {
		delete(o.held, t)
	} else {
		o.held[t] = c - 1
	}
	return true
}

func (o *Owner) forget(t tracked) {
	o.mtx.Lock()
	delete(o.created, t)
	o.mtx.Unlock()
}

// Exit simulates the death of the client. Objects it created are marked as
// zombies first, then every reference it holds is released. Objects still
// referenced elsewhere survive as zombies; the rest are destroyed now.
func (o *Owner) Exit() {
	o.mtx.Lock()
	if o.exited {
		o.mtx.Unlock()
		return
	}
	o.exited = true
	held, created := o.held, o.created
	o.held, o.created = map[tracked]int32{}, map[tracked]struct{}{}
	o.mtx.Unlock()

	log.Debugf("Owner %s exiting: %d held, %d created", o.id, len(held), len(created))

	for t := range created {
		t.zombify()
	}
	for t, n := range held {
		t.release(n)
	}
}
