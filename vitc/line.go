// vitc-generator - generate vertical interval timecode lines
//  Copyright (C) 2026, The Cacophony Project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package vitc

// LineBits is the number of bits in one VITC line.
const LineBits = 90

// SyncBits are the indices of the bits that are always set. Each one
// starts a ten bit group.
var SyncBits = [...]int{0, 10, 20, 30, 40, 50, 60, 70, 80}

// Flag bit positions.
const (
	FrameDropBit       = 14
	ColourFramingBit   = 15
	NTSCSecondFieldBit = 35
	UserBitsFormatBit  = 55
	ExternalClockBit   = 74
	PALSecondFieldBit  = 75
)

// Flags holds the six single bit markers of a line.
type Flags struct {
	FrameDrop       bool
	ColourFraming   bool
	NTSCSecondField bool
	UserBitsFormat  bool
	ExternalClock   bool
	PALSecondField  bool
}

// Line is one generated VITC line, bit 0 first.
type Line [LineBits]bool

// Bytes serialises the line as one byte per bit: 0xff for a set bit and
// 0x00 otherwise.
func (l Line) Bytes() []byte {
	out := make([]byte, LineBits)
	l.PutBytes(out)
	return out
}

// PutBytes writes the byte form of the line into out, which must hold at
// least LineBits bytes.
func (l Line) PutBytes(out []byte) {
	for i, b := range l {
		if b {
			out[i] = 0xff
		} else {
			out[i] = 0x00
		}
	}
}

func (l Line) String() string {
	buf := make([]byte, LineBits)
	for i, b := range l {
		if b {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// digit groups: where the units and tens of each timecode field go and how
// many tens bits are packed.
type digitSlot struct {
	units     int
	tens      int
	tensWidth int
}

var (
	frameSlot  = digitSlot{units: 2, tens: 12, tensWidth: 2}
	secondSlot = digitSlot{units: 22, tens: 32, tensWidth: 3}
	minuteSlot = digitSlot{units: 42, tens: 52, tensWidth: 3}
	hourSlot   = digitSlot{units: 62, tens: 72, tensWidth: 2}
)

// userBitsBase holds the first bit of each of the eight user bits nibbles.
var userBitsBase = [8]int{6, 16, 26, 36, 46, 56, 66, 76}

// encodeLine lays out the timecode, flags and user bits into l and then
// sets the checksum. Fields are sliced into digits without range checks,
// so out of range values are truncated to whatever fits.
func encodeLine(l *Line, tc Timecode, flags Flags, ub UserBits) {
	*l = Line{}

	for _, i := range SyncBits {
		l[i] = true
	}

	putDigits(l, frameSlot, tc.Frame)
	putDigits(l, secondSlot, tc.Second)
	putDigits(l, minuteSlot, tc.Minute)
	putDigits(l, hourSlot, tc.Hour)

	l[FrameDropBit] = flags.FrameDrop
	l[ColourFramingBit] = flags.ColourFraming
	l[NTSCSecondFieldBit] = flags.NTSCSecondField
	l[UserBitsFormatBit] = flags.UserBitsFormat
	l[ExternalClockBit] = flags.ExternalClock
	l[PALSecondFieldBit] = flags.PALSecondField

	for n, base := range userBitsBase {
		putBits(l, base, 4, int(ub.Nibble(n)))
	}

	setChecksum(l)
}

func putDigits(l *Line, slot digitSlot, v int) {
	units := v % 10
	tens := (v - units) / 10
	putBits(l, slot.units, 4, units)
	putBits(l, slot.tens, slot.tensWidth, tens)
}

// putBits writes the low width bits of v starting at base, least
// significant bit first.
func putBits(l *Line, base, width, v int) {
	for i := 0; i < width; i++ {
		l[base+i] = v&(1<<uint(i)) != 0
	}
}
