// SPDX-License-Identifier: EPL-2.0

package fusion

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ik5/soundcore/audio"
)

// Destructor releases the payload of an object whose last reference was
// dropped. zombie is set when the creating owner exited first.
type Destructor[T any] func(obj *Object[T], zombie bool)

// Pool is a fixed capacity collection of objects of one kind.
type Pool[T any] struct {
	name       string
	capacity   int
	destructor Destructor[T]

	mtx     sync.Mutex
	objects map[uint32]*Object[T]
	freeIDs []uint32
	nextID  uint32
}

func NewPool[T any](name string, capacity int, destructor Destructor[T]) *Pool[T] {
	return &Pool[T]{
		name:       name,
		capacity:   capacity,
		destructor: destructor,
		objects:    make(map[uint32]*Object[T]),
	}
}

func (p *Pool[T]) Name() string { return p.name }

func (p *Pool[T]) Capacity() int { return p.capacity }

// Len returns the number of live objects, zombies included.
func (p *Pool[T]) Len() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return len(p.objects)
}

// Create allocates a slot holding one reference for owner. The object stays
// in StateInit until activated.
func (p *Pool[T]) Create(owner *Owner) (*Object[T], error) {
	p.mtx.Lock()
	if len(p.objects) >= p.capacity {
		p.mtx.Unlock()
		return nil, fmt.Errorf("%s pool full (%d): %w", p.name, p.capacity, audio.ErrOutOfMemory)
	}

	var id uint32
	if n := len(p.freeIDs); n > 0 {
		id = p.freeIDs[n-1]
		p.freeIDs = p.freeIDs[:n-1]
	} else {
		id = p.nextID
		p.nextID++
	}

	obj := &Object[T]{pool: p, id: id, creator: owner}
	obj.refs.Store(1)
	p.objects[id] = obj
	p.mtx.Unlock()

	if owner != nil && !owner.add(obj, true) {
		obj.state.Store(int32(StateDestroyed))
		p.remove(obj)
		return nil, fmt.Errorf("create %s: owner %s exited: %w", p.name, owner, audio.ErrDestroyed)
	}

	log.Tracef("Created %s", obj)
	return obj, nil
}

// Lookup returns the live object with the given id.
func (p *Pool[T]) Lookup(id uint32) (*Object[T], bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	obj, ok := p.objects[id]
	return obj, ok
}

// Enumerate calls fn for every active object in id order until fn returns
// false.
func (p *Pool[T]) Enumerate(fn func(*Object[T]) bool) {
	p.mtx.Lock()
	objs := make([]*Object[T], 0, len(p.objects))
	for _, o := range p.objects {
		if o.State() == StateActive {
			objs = append(objs, o)
		}
	}
	p.mtx.Unlock()

	sort.Slice(objs, func(i, j int) bool { return objs[i].id < objs[j].id })
	for _, o := range objs {
		if !fn(o) {
			return
		}
	}
}

func (p *Pool[T]) remove(o *Object[T]) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.objects[o.id] == o {
		delete(p.objects, o.id)
		p.freeIDs = append(p.freeIDs, o.id)
	}
}
