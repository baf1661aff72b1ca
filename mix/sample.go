// SPDX-License-Identifier: EPL-2.0

package mix

import "fmt"

// Float is the floating point internal sample. Full scale is [-1,1].
type Float float32

// Fixed is the fixed point internal sample. Full scale is
// [-1<<FixedFracBits, 1<<FixedFracBits].
type Fixed int32

const (
	FixedFracBits = 23
	FixedOne      = Fixed(1) << FixedFracBits

	// PitchBits is the number of fractional bits of a pitch ratio.
	PitchBits = 14
	PitchOne  = 1 << PitchBits
)

type sample interface {
	Float | Fixed
}

// Representation selects the internal sample type of an engine.
type Representation int

const (
	FloatRepresentation Representation = iota
	FixedRepresentation
)

func (r Representation) String() string {
	switch r {
	case FloatRepresentation:
		return "float"
	case FixedRepresentation:
		return "fixed"
	}
	return fmt.Sprintf("Representation(%d)", int(r))
}
