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

package framebuffer

import (
	"fmt"
	"strings"
)

// PixelFormat is the layout of pixels in an output frame.
type PixelFormat int

const (
	Null PixelFormat = iota
	Binary
	BinaryInverted
	Grayscale8
	Grayscale16
	R8G8B8
	R16G16B16
	YUV444P8
	YUV444P16
)

var pixelFormatNames = map[PixelFormat]string{
	Null:           "Null",
	Binary:         "Binary",
	BinaryInverted: "BinaryInverted",
	Grayscale8:     "Grayscale8",
	Grayscale16:    "Grayscale16",
	R8G8B8:         "R8G8B8",
	R16G16B16:      "R16G16B16",
	YUV444P8:       "YUV444P8",
	YUV444P16:      "YUV444P16",
}

func (p PixelFormat) String() string {
	if name, ok := pixelFormatNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PixelFormat(%d)", int(p))
}

// ParsePixelFormat looks a format up by name, ignoring case.
func ParsePixelFormat(s string) (PixelFormat, error) {
	for p, name := range pixelFormatNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return Null, fmt.Errorf("unrecognised pixel format: %q", s)
}

// UnmarshalYAML allows pixel formats to be given by name in config files.
func (p *PixelFormat) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParsePixelFormat(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// BitDepth returns the number of bits used by one pixel, over all planes.
func (p PixelFormat) BitDepth() int {
	switch p {
	case Binary, BinaryInverted:
		return 1
	case Grayscale8:
		return 8
	case Grayscale16:
		return 16
	case R8G8B8, YUV444P8:
		return 24
	case R16G16B16, YUV444P16:
		return 48
	}
	return 0
}

// FrameSize returns the number of bytes in a width x height frame. Binary
// rows are padded to a whole byte.
func (p PixelFormat) FrameSize(width, height int) int {
	switch p {
	case Binary, BinaryInverted:
		return binaryStride(width) * height
	}
	return width * height * p.BitDepth() / 8
}

func binaryStride(width int) int {
	return (width + 7) / 8
}
