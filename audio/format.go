// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// SampleFormat is the external representation of a single PCM sample.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatU8                   // unsigned 8 bit
	FormatS16                  // signed 16 bit, little endian
	FormatS24                  // signed 24 bit, packed in 3 bytes, little endian
	FormatS32                  // signed 32 bit, little endian
	FormatFloat                // 32 bit IEEE float in [-1,1], little endian
)

// Formats lists every supported sample format.
var Formats = []SampleFormat{FormatU8, FormatS16, FormatS24, FormatS32, FormatFloat}

// Bits returns the number of significant bits of the format.
func (f SampleFormat) Bits() int {
	switch f {
	case FormatU8:
		return 8
	case FormatS16:
		return 16
	case FormatS24:
		return 24
	case FormatS32, FormatFloat:
		return 32
	}
	return 0
}

// Bytes returns the storage size of one sample.
func (f SampleFormat) Bytes() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatS32, FormatFloat:
		return 4
	}
	return 0
}

func (f SampleFormat) Valid() bool { return f.Bytes() > 0 }

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "U8"
	case FormatS16:
		return "S16"
	case FormatS24:
		return "S24"
	case FormatS32:
		return "S32"
	case FormatFloat:
		return "FLOAT"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// Slot names one of the six positions of the speaker layout. Volume vectors
// and downmixing are expressed in slots, independent of the interleaving order
// a ChannelMode uses.
type Slot int

const (
	SlotLeft Slot = iota
	SlotRight
	SlotCenter
	SlotRearLeft
	SlotRearRight
	SlotLFE

	NumSlots = 6
)

func (s Slot) String() string {
	switch s {
	case SlotLeft:
		return "left"
	case SlotRight:
		return "right"
	case SlotCenter:
		return "center"
	case SlotRearLeft:
		return "rear-left"
	case SlotRearRight:
		return "rear-right"
	case SlotLFE:
		return "lfe"
	}
	return fmt.Sprintf("Slot(%d)", int(s))
}

// ChannelMode describes the channel configuration of a buffer or device.
type ChannelMode int

const (
	ModeUnknown ChannelMode = iota
	ModeMono
	ModeStereo
	ModeStereo21   // L R LFE
	ModeStereo30   // L C R
	ModeStereo31   // L C R LFE
	ModeSurround40 // L R RL RR
	ModeSurround41 // L R RL RR LFE
	ModeSurround50 // L C R RL RR
	ModeSurround51 // L C R RL RR LFE
)

// Modes lists every supported channel mode.
var Modes = []ChannelMode{
	ModeMono, ModeStereo, ModeStereo21, ModeStereo30, ModeStereo31,
	ModeSurround40, ModeSurround41, ModeSurround50, ModeSurround51,
}

// Layout is the interleaving order of a channel mode.
type Layout struct {
	N     int
	Slots [NumSlots]Slot
}

var layouts = [...]Layout{
	ModeMono:       {1, [NumSlots]Slot{SlotCenter}},
	ModeStereo:     {2, [NumSlots]Slot{SlotLeft, SlotRight}},
	ModeStereo21:   {3, [NumSlots]Slot{SlotLeft, SlotRight, SlotLFE}},
	ModeStereo30:   {3, [NumSlots]Slot{SlotLeft, SlotCenter, SlotRight}},
	ModeStereo31:   {4, [NumSlots]Slot{SlotLeft, SlotCenter, SlotRight, SlotLFE}},
	ModeSurround40: {4, [NumSlots]Slot{SlotLeft, SlotRight, SlotRearLeft, SlotRearRight}},
	ModeSurround41: {5, [NumSlots]Slot{SlotLeft, SlotRight, SlotRearLeft, SlotRearRight, SlotLFE}},
	ModeSurround50: {5, [NumSlots]Slot{SlotLeft, SlotCenter, SlotRight, SlotRearLeft, SlotRearRight}},
	ModeSurround51: {6, [NumSlots]Slot{SlotLeft, SlotCenter, SlotRight, SlotRearLeft, SlotRearRight, SlotLFE}},
}

// Layout returns the interleaving order. Mono reports a single center slot,
// although the mixer treats mono as its own case.
func (m ChannelMode) Layout() Layout {
	if !m.Valid() {
		return Layout{}
	}
	return layouts[m]
}

func (m ChannelMode) Valid() bool { return m > ModeUnknown && int(m) < len(layouts) }

// Channels returns the number of interleaved channels.
func (m ChannelMode) Channels() int { return m.Layout().N }

func (m ChannelMode) IsMono() bool { return m == ModeMono }

// Has reports whether the mode carries a discrete channel for slot.
func (m ChannelMode) Has(slot Slot) bool {
	if m == ModeMono {
		return false
	}
	l := m.Layout()
	for i := 0; i < l.N; i++ {
		if l.Slots[i] == slot {
			return true
		}
	}
	return false
}

func (m ChannelMode) HasCenter() bool { return m.Has(SlotCenter) }
func (m ChannelMode) HasRears() bool  { return m.Has(SlotRearLeft) }
func (m ChannelMode) HasLFE() bool    { return m.Has(SlotLFE) }

func (m ChannelMode) String() string {
	switch m {
	case ModeMono:
		return "mono"
	case ModeStereo:
		return "stereo"
	case ModeStereo21:
		return "2.1"
	case ModeStereo30:
		return "3.0"
	case ModeStereo31:
		return "3.1"
	case ModeSurround40:
		return "4.0"
	case ModeSurround41:
		return "4.1"
	case ModeSurround50:
		return "5.0"
	case ModeSurround51:
		return "5.1"
	}
	return fmt.Sprintf("ChannelMode(%d)", int(m))
}

// ModeForChannels picks the default channel mode for an interleaved stream of
// n channels, as decoders report them.
func ModeForChannels(n int) (ChannelMode, bool) {
	switch n {
	case 1:
		return ModeMono, true
	case 2:
		return ModeStereo, true
	case 3:
		return ModeStereo30, true
	case 4:
		return ModeSurround40, true
	case 5:
		return ModeSurround50, true
	case 6:
		return ModeSurround51, true
	}
	return ModeUnknown, false
}

// BytesPerFrame returns the size of one interleaved frame.
func BytesPerFrame(format SampleFormat, mode ChannelMode) int {
	return format.Bytes() * mode.Channels()
}
