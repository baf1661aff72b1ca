// SPDX-License-Identifier: EPL-2.0

package mix

import "github.com/ik5/soundcore/audio"

type srcKind int

const (
	kindMono srcKind = iota
	kindStereo
	kindMulti
	numKinds
)

func kindOf(m audio.ChannelMode) srcKind {
	switch m {
	case audio.ModeMono:
		return kindMono
	case audio.ModeStereo:
		return kindStereo
	}
	return kindMulti
}

// mixCall carries the per call state the inner loops read. Each accumulator
// owns one, so a mixing call does not allocate.
type mixCall[S sample] struct {
	dst    []S
	dch    int
	dmono  bool
	dslots []audio.Slot
	foldC  bool
	foldR  bool

	data   []byte
	length int
	sch    int
	sslots []audio.Slot

	pos int
	max int
	inc int
	g   gainSet[S]
}

type mixFunc[S sample] func(m *mixCall[S]) int

// table is indexed by sample format, source kind and direction (0 forward,
// 1 backward).
type table[S sample] [audio.FormatFloat + 1][numKinds][2]mixFunc[S]

func buildTable[S sample, O ops[S]]() *table[S] {
	var (
		o O
		t table[S]
	)
	for _, f := range audio.Formats {
		dec := o.decoder(f)
		for k := kindMono; k < numKinds; k++ {
			t[f][k][0] = mixFrames[S, O](dec, k, false)
			t[f][k][1] = mixFrames[S, O](dec, k, true)
		}
	}
	return &t
}

func mixFrames[S sample, O ops[S]](dec decodeFunc[S], kind srcKind, backward bool) mixFunc[S] {
	return func(m *mixCall[S]) int {
		n := 0
		if backward {
			for i := 0; i > m.max; i += m.inc {
				mixFrame[S, O](m, dec, kind, i, n)
				n++
			}
		} else {
			for i := 0; i < m.max; i += m.inc {
				mixFrame[S, O](m, dec, kind, i, n)
				n++
			}
		}
		return n
	}
}

// mixFrame adds the source frame at step i to destination frame n.
func mixFrame[S sample, O ops[S]](m *mixCall[S], dec decodeFunc[S], kind srcKind, i, n int) {
	var o O

	p := (m.pos + i>>PitchBits) % m.length
	if p < 0 {
		p += m.length
	}
	base := p * m.sch

	var v [audio.NumSlots]S
	switch kind {
	case kindMono:
		s := dec(m.data, base)
		v[audio.SlotLeft] = o.mul(s, m.g.lv[audio.SlotLeft])
		v[audio.SlotRight] = o.mul(s, m.g.lv[audio.SlotRight])
	case kindStereo:
		v[audio.SlotLeft] = o.mul(dec(m.data, base), m.g.lv[audio.SlotLeft])
		v[audio.SlotRight] = o.mul(dec(m.data, base+1), m.g.lv[audio.SlotRight])
	default:
		for c, slot := range m.sslots {
			v[slot] = o.mul(dec(m.data, base+c), m.g.lv[slot])
		}
	}

	if m.foldC {
		c := o.mul(v[audio.SlotCenter], m.g.center)
		v[audio.SlotLeft] = o.add(v[audio.SlotLeft], c)
		v[audio.SlotRight] = o.add(v[audio.SlotRight], c)
	}
	if m.foldR {
		v[audio.SlotLeft] = o.add(v[audio.SlotLeft], o.mul(v[audio.SlotRearLeft], m.g.rear))
		v[audio.SlotRight] = o.add(v[audio.SlotRight], o.mul(v[audio.SlotRearRight], m.g.rear))
	}

	if m.dmono {
		m.dst[n] = o.add(m.dst[n], o.mid(v[audio.SlotLeft], v[audio.SlotRight]))
		return
	}
	out := m.dst[n*m.dch : n*m.dch+m.dch]
	for c, slot := range m.dslots {
		out[c] = o.add(out[c], v[slot])
	}
}
