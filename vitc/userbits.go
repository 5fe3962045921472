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

import "encoding/binary"

// UserBits is the 32 bit caller defined payload carried by each line. Byte
// 0 supplies nibbles 0 (low) and 1 (high), byte 1 nibbles 2 and 3, and so
// on.
type UserBits [4]byte

// UserBitsFromString takes the first four bytes of s, padding with zeros
// when s is shorter.
func UserBitsFromString(s string) UserBits {
	var ub UserBits
	copy(ub[:], s)
	return ub
}

// Nibble returns the 4 bit group n (0-7).
func (ub UserBits) Nibble(n int) uint8 {
	return (ub[n/2] >> (4 * uint(n%2))) & 0x0f
}

// Uint32 returns the payload with byte 0 as the least significant byte.
func (ub UserBits) Uint32() uint32 {
	return binary.LittleEndian.Uint32(ub[:])
}

// UserBitsFromUint32 is the inverse of UserBits.Uint32.
func UserBitsFromUint32(v uint32) UserBits {
	var ub UserBits
	binary.LittleEndian.PutUint32(ub[:], v)
	return ub
}

func (ub UserBits) IsZero() bool {
	return ub == UserBits{}
}
