// SPDX-License-Identifier: EPL-2.0

// Package shm manages the sample storage arena that every client of a sound
// core session shares. The arena is one mapping sized at session start;
// buffers carve blocks out of it and return them when destroyed.
package shm

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Alignment of every block offset and length.
const Alignment = 16

var (
	ErrOutOfMemory = errors.New("shm: arena exhausted")
	ErrClosed      = errors.New("shm: arena closed")
	ErrBadBlock    = errors.New("shm: block not allocated from this arena")
)

// Block is a region of the arena.
type Block struct {
	Off  int
	Len  int
	Data []byte
}

type span struct {
	off, len int
}

// Arena is a first-fit allocator over a single mapping.
type Arena struct {
	mtx sync.Mutex

	mem     []byte
	free    []span // sorted by offset, never adjacent
	used    map[int]int
	inUse   int
	closing bool
	closed  bool
}

// New maps size bytes, rounded up to the alignment.
func New(size int) (*Arena, error) {
	if size <= 0 {
		return nil, fmt.Errorf("shm: invalid size %d", size)
	}
	size = align(size)

	mem, err := mapMemory(size)
	if err != nil {
		return nil, fmt.Errorf("shm: map %d bytes: %w", size, err)
	}

	return &Arena{
		mem:  mem,
		free: []span{{0, size}},
		used: make(map[int]int),
	}, nil
}

func align(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// Size returns the total capacity.
func (a *Arena) Size() int { return len(a.mem) }

// InUse returns the number of bytes handed out.
func (a *Arena) InUse() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.inUse
}

// Blocks returns the number of live blocks.
func (a *Arena) Blocks() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return len(a.used)
}

// Alloc returns a zeroed block of at least n bytes.
func (a *Arena) Alloc(n int) (Block, error) {
	if n <= 0 {
		return Block{}, fmt.Errorf("shm: invalid allocation size %d", n)
	}
	size := align(n)

	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.closing || a.closed {
		return Block{}, ErrClosed
	}

	for i, s := range a.free {
		if s.len < size {
			continue
		}
		if s.len == size {
			a.free = append(a.free[:i], a.free[i+1:]...)
		} else {
			a.free[i] = span{s.off + size, s.len - size}
		}
		a.used[s.off] = size
		a.inUse += size

		data := a.mem[s.off : s.off+n : s.off+size]
		clear(data[:cap(data)])
		return Block{Off: s.off, Len: n, Data: data}, nil
	}

	return Block{}, fmt.Errorf("%w: want %d bytes, %d of %d in use", ErrOutOfMemory, size, a.inUse, len(a.mem))
}

// Free returns b to the arena. If Close was called earlier the mapping is
// released together with the last block.
func (a *Arena) Free(b Block) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.closed {
		return ErrClosed
	}
	size, ok := a.used[b.Off]
	if !ok {
		return ErrBadBlock
	}
	delete(a.used, b.Off)
	a.inUse -= size
	a.insertFree(span{b.Off, size})

	if a.closing && len(a.used) == 0 {
		return a.unmapLocked()
	}
	return nil
}

func (a *Arena) insertFree(s span) {
	i := sort.Search(len(a.free), func(i int) bool { return a.free[i].off > s.off })
	a.free = append(a.free, span{})
	copy(a.free[i+1:], a.free[i:])
	a.free[i] = s

	if i+1 < len(a.free) && a.free[i].off+a.free[i].len == a.free[i+1].off {
		a.free[i].len += a.free[i+1].len
		a.free = append(a.free[:i+1], a.free[i+2:]...)
	}
	if i > 0 && a.free[i-1].off+a.free[i-1].len == a.free[i].off {
		a.free[i-1].len += a.free[i].len
		a.free = append(a.free[:i], a.free[i+1:]...)
	}
}

// Close releases the mapping. While blocks are still live the release is
// deferred until the last of them is freed.
func (a *Arena) Close() error {
	a.mtx.Lock()
	defer a.mtx.Unlock()

	if a.closed || a.closing {
		return nil
	}
	a.closing = true
	if len(a.used) > 0 {
		return nil
	}
	return a.unmapLocked()
}

// Closed reports whether the mapping has been released.
func (a *Arena) Closed() bool {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.closed
}

func (a *Arena) unmapLocked() error {
	a.closed = true
	mem := a.mem
	a.mem = nil
	a.free = nil
	return unmapMemory(mem)
}
