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
	"encoding/binary"
	"errors"
	"fmt"
)

// Framebuffer is a frame of pixels that VITC lines can be drawn into.
// Intensities run from 0 (black) to 1 (white).
type Framebuffer interface {
	// Bytes returns the frame data. Writes to the slice change the frame.
	Bytes() []byte
	Width() int
	Height() int
	PixelFormat() PixelFormat
	SetPixel(x, y int, v float32)
	// DrawRectangle fills a region, clipped to the frame.
	DrawRectangle(x, y, w, h int, v float32)
}

// New returns a black frame in the given pixel format.
func New(format PixelFormat, width, height int) (Framebuffer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	b := &buffer{
		pix:    make([]byte, format.FrameSize(width, height)),
		width:  width,
		height: height,
		format: format,
	}

	var fb Framebuffer
	switch format {
	case Binary:
		fb = &binaryFramebuffer{buffer: b}
	case BinaryInverted:
		fb = &binaryFramebuffer{buffer: b, inverted: true}
	case Grayscale8:
		fb = &gray8Framebuffer{b}
	case Grayscale16:
		fb = &gray16Framebuffer{b}
	case R8G8B8:
		fb = &rgb8Framebuffer{b}
	case R16G16B16:
		fb = &rgb16Framebuffer{b}
	case YUV444P8:
		fb = newYUV8Framebuffer(b)
	case YUV444P16:
		fb = newYUV16Framebuffer(b)
	case Null:
		return nil, errors.New("pixel format not implemented: Null")
	default:
		return nil, fmt.Errorf("pixel format not implemented: %v", format)
	}
	b.setPixel = fb.SetPixel
	return fb, nil
}

type buffer struct {
	pix      []byte
	width    int
	height   int
	format   PixelFormat
	setPixel func(x, y int, v float32)
}

func (b *buffer) Bytes() []byte            { return b.pix }
func (b *buffer) Width() int               { return b.width }
func (b *buffer) Height() int              { return b.height }
func (b *buffer) PixelFormat() PixelFormat { return b.format }

func (b *buffer) DrawRectangle(x, y, w, h int, v float32) {
	x = clamp(x, 0, b.width)
	y = clamp(y, 0, b.height)
	w = clamp(w, 0, b.width-x)
	h = clamp(h, 0, b.height-y)

	for iy := y; iy < y+h; iy++ {
		for ix := x; ix < x+w; ix++ {
			b.setPixel(ix, iy, v)
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func to8(v float32) byte {
	s := v * 256
	if s < 0 {
		return 0
	}
	if s > 255 {
		return 255
	}
	return byte(s)
}

func to16(v float32) uint16 {
	s := v * 65536
	if s < 0 {
		return 0
	}
	if s > 65535 {
		return 65535
	}
	return uint16(s)
}

// binaryFramebuffer packs 8 pixels per byte, most significant bit first.
type binaryFramebuffer struct {
	*buffer
	inverted bool
}

func (f *binaryFramebuffer) SetPixel(x, y int, v float32) {
	i := y*binaryStride(f.width) + x/8
	mask := byte(0x80) >> uint(x%8)
	if (v >= 0.5) != f.inverted {
		f.pix[i] |= mask
	} else {
		f.pix[i] &^= mask
	}
}

type gray8Framebuffer struct {
	*buffer
}

func (f *gray8Framebuffer) SetPixel(x, y int, v float32) {
	f.pix[x+y*f.width] = to8(v)
}

// 16 bit formats are little endian.
type gray16Framebuffer struct {
	*buffer
}

func (f *gray16Framebuffer) SetPixel(x, y int, v float32) {
	binary.LittleEndian.PutUint16(f.pix[2*(x+y*f.width):], to16(v))
}

type rgb8Framebuffer struct {
	*buffer
}

func (f *rgb8Framebuffer) SetPixel(x, y int, v float32) {
	pos := 3 * (x + y*f.width)
	c := to8(v)
	f.pix[pos] = c
	f.pix[pos+1] = c
	f.pix[pos+2] = c
}

type rgb16Framebuffer struct {
	*buffer
}

func (f *rgb16Framebuffer) SetPixel(x, y int, v float32) {
	pos := 6 * (x + y*f.width)
	c := to16(v)
	binary.LittleEndian.PutUint16(f.pix[pos:], c)
	binary.LittleEndian.PutUint16(f.pix[pos+2:], c)
	binary.LittleEndian.PutUint16(f.pix[pos+4:], c)
}

// The planar YUV formats are written with neutral chroma, so only the Y
// plane carries the line.

type yuv8Framebuffer struct {
	*buffer
}

func newYUV8Framebuffer(b *buffer) *yuv8Framebuffer {
	plane := b.width * b.height
	for i := plane; i < len(b.pix); i++ {
		b.pix[i] = 0x80
	}
	return &yuv8Framebuffer{b}
}

func (f *yuv8Framebuffer) SetPixel(x, y int, v float32) {
	plane := f.width * f.height
	i := x + y*f.width
	f.pix[i] = to8(v)
	f.pix[plane+i] = 0x80
	f.pix[2*plane+i] = 0x80
}

type yuv16Framebuffer struct {
	*buffer
}

func newYUV16Framebuffer(b *buffer) *yuv16Framebuffer {
	plane := 2 * b.width * b.height
	for i := plane; i < len(b.pix); i += 2 {
		binary.LittleEndian.PutUint16(b.pix[i:], 0x8000)
	}
	return &yuv16Framebuffer{b}
}

func (f *yuv16Framebuffer) SetPixel(x, y int, v float32) {
	plane := 2 * f.width * f.height
	i := 2 * (x + y*f.width)
	binary.LittleEndian.PutUint16(f.pix[i:], to16(v))
	binary.LittleEndian.PutUint16(f.pix[plane+i:], 0x8000)
	binary.LittleEndian.PutUint16(f.pix[2*plane+i:], 0x8000)
}
