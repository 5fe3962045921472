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

// First and last index of the bits covered by the checksum.
const (
	checksumStart = 82
	checksumBits  = 8
)

// setChecksum fills bits 82-89. Bit 82+k is the even parity of every
// eighth bit from k+2 below 82, so the last two stripes wrap round to
// start at bits 0 and 1 and include four of the sync bits.
func setChecksum(l *Line) {
	for k := 0; k < checksumBits; k++ {
		l[checksumStart+k] = Checksum(l, k)
	}
}

// Checksum computes checksum bit k (0-7, i.e. line bit 82+k) from bits
// 0-81 of l.
func Checksum(l *Line, k int) bool {
	start := (k + 2) % checksumBits
	parity := false
	for i := start; i < checksumStart; i += checksumBits {
		parity = parity != l[i]
	}
	return parity
}
