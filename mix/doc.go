// SPDX-License-Identifier: EPL-2.0

// Package mix is the sample mixing engine of the sound core.
//
// Samples are accumulated in one of two internal representations: 32 bit
// float, or 32 bit fixed point with FixedFracBits fractional bits. An Engine
// bound to a representation reads PCM straight out of buffer memory in any
// audio.SampleFormat, scales it by a six slot gain vector, folds it into the
// channel mode of the destination and adds it to an Accumulator. Render
// narrows an accumulator into the device format, optionally dithering 8 and
// 16 bit output.
//
// Pitch is a signed ratio with PitchBits fractional bits. Positions advance
// in whole source frames; fractional steps repeat or skip frames, they are
// never interpolated.
package mix
