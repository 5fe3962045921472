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

package headers

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	"gopkg.in/yaml.v1"

	"github.com/TheCacophonyProject/vitc-generator/framebuffer"
)

// Keys of an input stream header.
const (
	XResolution = "ResX"
	YResolution = "ResY"
	FPS         = "FPS"
	PixelFormat = "PixelFormat"
	FrameSize   = "FrameSize"
	Source      = "Source"
)

// HeaderInfo describes the frames of an input stream. It is sent as YAML
// ahead of the frame data and ends with an empty line.
type HeaderInfo struct {
	resX        int
	resY        int
	fps         int
	framesize   int
	pixelFormat string
	source      string
}

func (h *HeaderInfo) ResX() int {
	return h.resX
}

func (h *HeaderInfo) ResY() int {
	return h.resY
}

// FPS returns the stream frame rate, or 0 if the header didn't give one.
func (h *HeaderInfo) FPS() int {
	return h.fps
}

// Source names whatever produced the stream.
func (h *HeaderInfo) Source() string {
	return h.source
}

// PixelFormat returns the pixel format of the frames.
func (h *HeaderInfo) PixelFormat() (framebuffer.PixelFormat, error) {
	return framebuffer.ParsePixelFormat(h.pixelFormat)
}

// FrameSize returns the number of bytes in each frame. When the header
// doesn't say, it is worked out from the resolution and pixel format.
func (h *HeaderInfo) FrameSize() int {
	if h.framesize > 0 {
		return h.framesize
	}
	format, err := h.PixelFormat()
	if err != nil {
		return 0
	}
	return format.FrameSize(h.resX, h.resY)
}

// Validate checks that the header describes frames that can be read.
func (h *HeaderInfo) Validate() error {
	if h.resX < 1 || h.resY < 1 {
		return errors.New("header resolution must be set")
	}
	format, err := h.PixelFormat()
	if err != nil {
		return err
	}
	if h.framesize > 0 && h.framesize != format.FrameSize(h.resX, h.resY) {
		return errors.New("header frame size doesn't match resolution and pixel format")
	}
	return nil
}

func ReadHeaderInfo(reader *bufio.Reader) (*HeaderInfo, error) {
	var buf bytes.Buffer
	for {
		line, err := reader.ReadString(byte('\n'))
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		buf.WriteString(line)
	}
	h := make(map[string]interface{})
	err := yaml.Unmarshal(buf.Bytes(), &h)
	if err != nil {
		return nil, err
	}

	return &HeaderInfo{
		resX:        toInt(h[XResolution]),
		resY:        toInt(h[YResolution]),
		fps:         toInt(h[FPS]),
		framesize:   toInt(h[FrameSize]),
		pixelFormat: toStr(h[PixelFormat]),
		source:      toStr(h[Source]),
	}, nil
}

func toInt(v interface{}) int {
	out, ok := v.(int)
	if !ok {
		return 0
	}
	return out
}

func toStr(v interface{}) string {
	out, ok := v.(string)
	if !ok {
		return ""
	}
	return out
}
