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

// Codec produces VITC lines from a Clock and a user bits payload. A Codec
// is owned by a single caller; use one per output channel.
type Codec struct {
	*Clock

	userBits UserBits

	colourFraming  bool
	userBitsFormat bool
	externalClock  bool

	line Line
}

// New returns a codec at 00:00:00:00, 25 fps, non-drop, progressive, with
// zeroed user bits.
func New() *Codec {
	return &Codec{Clock: NewClock(PAL)}
}

func (c *Codec) UserBits() UserBits {
	return c.userBits
}

func (c *Codec) SetUserBits(ub UserBits) {
	c.userBits = ub
}

func (c *Codec) ClearUserBits() {
	c.userBits = UserBits{}
}

// SetColourFraming sets bit 15.
func (c *Codec) SetColourFraming(on bool) {
	c.colourFraming = on
}

// SetUserBitsFormat sets bit 55.
func (c *Codec) SetUserBitsFormat(on bool) {
	c.userBitsFormat = on
}

// SetExternalClock sets bit 74.
func (c *Codec) SetExternalClock(on bool) {
	c.externalClock = on
}

// Flags returns the flag bits the next Generate call will encode.
func (c *Codec) Flags() Flags {
	rate := c.Rate()
	return Flags{
		FrameDrop:       c.dropFrame && rate == NTSC,
		ColourFraming:   c.colourFraming,
		NTSCSecondField: c.secondField && rate == NTSC,
		UserBitsFormat:  c.userBitsFormat,
		ExternalClock:   c.externalClock,
		PALSecondField:  c.secondField && rate == PAL,
	}
}

// Generate encodes the current state into a line. Calling it again without
// changing the state returns the same line.
func (c *Codec) Generate() Line {
	encodeLine(&c.line, c.tc, c.Flags(), c.userBits)
	return c.line
}

// Result returns the most recently generated line.
func (c *Codec) Result() Line {
	return c.line
}
