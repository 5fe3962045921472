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

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// FrameRate is the nominal frame rate of the signal being timecoded.
type FrameRate int

const (
	Film FrameRate = 24
	PAL  FrameRate = 25
	// NTSC is 29.97 fps rounded up to 30 for encoding.
	NTSC FrameRate = 30
)

// MaxFPS is the highest frame rate whose frame numbers fit in the two
// frame-tens bits of a line.
const MaxFPS = 39

func (r FrameRate) String() string {
	switch r {
	case Film:
		return "Film"
	case PAL:
		return "PAL"
	case NTSC:
		return "NTSC"
	}
	return fmt.Sprintf("%dfps", int(r))
}

// Timecode is an hour:minute:second:frame position.
type Timecode struct {
	Hour   int
	Minute int
	Second int
	Frame  int
}

func (tc Timecode) String() string {
	return tc.format(':')
}

// DropFrameString formats the timecode with the ';' frame separator used
// for drop-frame timecode.
func (tc Timecode) DropFrameString() string {
	return tc.format(';')
}

func (tc Timecode) format(sep byte) string {
	return fmt.Sprintf("%02d:%02d:%02d%c%02d", tc.Hour, tc.Minute, tc.Second, sep, tc.Frame)
}

// FrameCount returns the absolute frame count of the timecode at fps.
func (tc Timecode) FrameCount(fps int) int64 {
	f := int64(fps)
	return int64(tc.Frame) +
		int64(tc.Second)*f +
		int64(tc.Minute)*f*60 +
		int64(tc.Hour)*f*3600
}

// TimecodeFromFrameCount converts an absolute frame count back into a
// timecode, wrapping the hour at 24.
func TimecodeFromFrameCount(count int64, fps int) Timecode {
	f := int64(fps)
	return Timecode{
		Hour:   int(count / f / 3600 % 24),
		Minute: int(count / f / 60 % 60),
		Second: int(count / f % 60),
		Frame:  int(count % f),
	}
}

// ParseTimecode reads "HH:MM:SS:FF" (or "HH:MM:SS;FF"). Field values are
// not range checked.
func ParseTimecode(s string) (Timecode, error) {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ':' || r == ';'
	})
	if len(parts) != 4 {
		return Timecode{}, fmt.Errorf("invalid timecode %q: expected HH:MM:SS:FF", s)
	}
	var vals [4]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Timecode{}, fmt.Errorf("invalid timecode %q: %v", s, err)
		}
		if v < 0 {
			return Timecode{}, errors.New("timecode fields can't be negative")
		}
		vals[i] = v
	}
	return Timecode{Hour: vals[0], Minute: vals[1], Second: vals[2], Frame: vals[3]}, nil
}

// ParseFrameRate reads a frame rate in frames per second.
func ParseFrameRate(s string) (FrameRate, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %v", s, err)
	}
	if v < 1 || v > MaxFPS {
		return 0, fmt.Errorf("frame rate %d outside of 1-%d", v, MaxFPS)
	}
	return FrameRate(v), nil
}
