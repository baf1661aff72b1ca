// SPDX-License-Identifier: EPL-2.0

package mix

import (
	"math"

	"github.com/ik5/soundcore/audio"
)

// DefaultDownmix is the level center and rear channels are folded in with
// when the destination lacks them.
const DefaultDownmix = 0.7071

// Gains is the scaled gain vector for one mixing call, indexed by audio.Slot.
type Gains struct {
	Levels [audio.NumSlots]float32
	Center float32
	Rear   float32

	f      [audio.NumSlots]Float
	x      [audio.NumSlots]Fixed
	fc, fr Float
	xc, xr Fixed
	silent bool
}

// NewGains multiplies levels by scale and prepares both representations.
// center and rear are the downmix coefficients.
func NewGains(levels [audio.NumSlots]float32, scale, center, rear float32) Gains {
	g := Gains{Center: center, Rear: rear, silent: true}
	for i, l := range levels {
		v := l * scale
		g.Levels[i] = v
		g.f[i] = Float(v)
		g.x[i] = levelToFixed(v)
		if g.x[i] != 0 || v != 0 {
			g.silent = false
		}
	}
	g.fc, g.fr = Float(center), Float(rear)
	g.xc, g.xr = levelToFixed(center), levelToFixed(rear)
	return g
}

// UnityGains returns levels of 1 on every slot and the default downmix.
func UnityGains() Gains {
	return NewGains([audio.NumSlots]float32{1, 1, 1, 1, 1, 1}, 1, DefaultDownmix, DefaultDownmix)
}

// Silent reports whether every level is zero.
func (g *Gains) Silent() bool { return g.silent }

func levelToFixed(v float32) Fixed {
	return Fixed(math.Round(float64(v) * (1 << FixedFracBits)))
}
