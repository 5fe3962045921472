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

package generator

// Geometry places the VITC line in a frame. Each bit covers BitWidth
// columns and LineHeight rows; the first field is drawn at Top and the
// second directly below it.
type Geometry struct {
	BitWidth   int
	LineHeight int
	Left       int
	Top        int
}

// NewGeometry centres the 90 bits horizontally. With bitWidth 0 the bits
// are stretched to fill as much of the width as divides evenly. Embedded
// lines sit just below the top row; generated lines sit in the middle of
// the frame.
func NewGeometry(width, height, bitWidth, lineHeight int, embed bool) Geometry {
	if bitWidth <= 0 {
		bitWidth = width / lineBits
	}
	if bitWidth < 1 {
		bitWidth = 1
	}
	if lineHeight < 1 {
		lineHeight = 1
	}

	g := Geometry{
		BitWidth:   bitWidth,
		LineHeight: lineHeight,
		Left:       (width - lineBits*bitWidth) / 2,
	}
	if g.Left < 0 {
		g.Left = 0
	}
	if embed {
		g.Top = 1
	} else if top := height/2 - lineHeight; top > 0 {
		g.Top = top
	}
	return g
}

// BlankHeight is the number of rows cleared from the top of an input
// frame before the line is drawn over it.
func (g Geometry) BlankHeight() int {
	return 2*g.Top + 2*g.LineHeight
}

// FieldRow returns the first row used by the given field (0 or 1).
func (g Geometry) FieldRow(field int) int {
	return g.Top + field*g.LineHeight
}
