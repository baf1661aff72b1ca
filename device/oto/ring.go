// SPDX-License-Identifier: EPL-2.0

package oto

import "sync"

// ring queues committed frames for the player. Reads never block: a short
// queue is padded with silence so the player keeps running.
type ring struct {
	mtx     sync.Mutex
	data    []byte
	r, n    int
	silence byte

	// underruns counts reads that had to be padded
	underruns int
}

func newRing(size int, silence byte) *ring {
	return &ring{data: make([]byte, size), silence: silence}
}

// free returns the number of bytes that can be written.
func (q *ring) free() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.data) - q.n
}

// queued returns the number of bytes waiting.
func (q *ring) queued() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return q.n
}

// write appends p, dropping what does not fit, and returns the bytes taken.
func (q *ring) write(p []byte) int {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	total := 0
	for len(p) > 0 && q.n < len(q.data) {
		w := (q.r + q.n) % len(q.data)
		end := len(q.data)
		if w < q.r {
			end = q.r
		}
		c := copy(q.data[w:end], p)
		q.n += c
		total += c
		p = p[c:]
	}
	return total
}

// Read implements io.Reader for the player.
func (q *ring) Read(p []byte) (int, error) {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	out := p
	for len(out) > 0 && q.n > 0 {
		end := min(q.r+q.n, len(q.data))
		c := copy(out, q.data[q.r:end])
		q.r = (q.r + c) % len(q.data)
		q.n -= c
		out = out[c:]
	}
	if len(out) > 0 {
		q.underruns++
		for i := range out {
			out[i] = q.silence
		}
	}
	return len(p), nil
}

// reset drops everything queued.
func (q *ring) reset() {
	q.mtx.Lock()
	q.r, q.n = 0, 0
	q.mtx.Unlock()
}
