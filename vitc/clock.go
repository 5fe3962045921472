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

// Clock tracks the running timecode. The hour, minute, second and frame
// fields and the absolute frame count are kept in step: every setter
// recomputes the other representation before it returns.
type Clock struct {
	tc         Timecode
	frameCount int64
	fps        int

	dropFrame   bool
	interlaced  bool
	secondField bool
}

// NewClock returns a clock at 00:00:00:00 running at rate.
func NewClock(rate FrameRate) *Clock {
	return &Clock{fps: int(rate)}
}

func (c *Clock) Timecode() Timecode {
	return c.tc
}

func (c *Clock) Hour() int   { return c.tc.Hour }
func (c *Clock) Minute() int { return c.tc.Minute }
func (c *Clock) Second() int { return c.tc.Second }
func (c *Clock) Frame() int  { return c.tc.Frame }

// The field setters store the value verbatim. Nothing is range checked
// here; only StepOneFrame wraps.

func (c *Clock) SetHour(v int) {
	c.tc.Hour = v
	c.updateFrameCount()
}

func (c *Clock) SetMinute(v int) {
	c.tc.Minute = v
	c.updateFrameCount()
}

func (c *Clock) SetSecond(v int) {
	c.tc.Second = v
	c.updateFrameCount()
}

func (c *Clock) SetFrame(v int) {
	c.tc.Frame = v
	c.updateFrameCount()
}

// SetTimecode sets all four fields at once.
func (c *Clock) SetTimecode(tc Timecode) {
	c.tc = tc
	c.updateFrameCount()
}

// FrameCount returns the absolute frame count.
func (c *Clock) FrameCount() int64 {
	return c.frameCount
}

// SetFrameCount stores count and derives the timecode fields from it.
func (c *Clock) SetFrameCount(count int64) {
	c.frameCount = count
	c.updateTimecode()
}

func (c *Clock) FPS() int {
	return c.fps
}

// Rate returns the frame rate kind, which decides the field and frame drop
// flags.
func (c *Clock) Rate() FrameRate {
	return FrameRate(c.fps)
}

// SetFPS changes the frame rate, rescaling the absolute frame count so the
// wall clock position is kept. Values below 1 are ignored.
func (c *Clock) SetFPS(fps int) {
	if fps < 1 {
		return
	}
	if c.fps > 0 {
		c.frameCount = c.frameCount * int64(fps) / int64(c.fps)
	}
	c.fps = fps
	c.updateTimecode()
}

func (c *Clock) SetRate(rate FrameRate) {
	c.SetFPS(int(rate))
}

func (c *Clock) DropFrame() bool {
	return c.dropFrame
}

// SetDropFrame enables drop-frame counting. It only has an effect at the
// NTSC rate.
func (c *Clock) SetDropFrame(on bool) {
	c.dropFrame = on
}

func (c *Clock) Interlaced() bool {
	return c.interlaced
}

func (c *Clock) SetInterlaced(on bool) {
	c.interlaced = on
	if !on {
		c.secondField = false
	}
}

// IsSecondField reports whether lines are currently generated for the
// second (even) field of the frame.
func (c *Clock) IsSecondField() bool {
	return c.secondField
}

// StepOneFrame advances the timecode by one frame and returns to the first
// field.
func (c *Clock) StepOneFrame() {
	c.tc.Frame++
	if c.tc.Frame >= c.fps {
		c.tc.Frame = 0
		c.tc.Second++
	}
	if c.tc.Second > 59 {
		c.tc.Second = 0
		c.tc.Minute++
	}
	if c.tc.Minute > 59 {
		c.tc.Minute = 0
		c.tc.Hour++
	}
	if c.tc.Hour > 23 {
		c.tc.Hour = 0
	}
	c.updateFrameCount()

	// SMPTE drop-frame: frame numbers 0 and 1 are skipped at the start of
	// every minute except each tenth one.
	if c.dropFrame && c.Rate() == NTSC {
		if c.tc.Minute%10 != 0 && c.tc.Second == 0 && c.tc.Frame == 0 {
			c.SetFrame(2)
		}
	}

	c.secondField = false
}

// SwitchFieldType toggles between the first and second field. It does
// nothing unless the clock is interlaced.
func (c *Clock) SwitchFieldType() {
	if c.interlaced {
		c.secondField = !c.secondField
	}
}

func (c *Clock) String() string {
	if c.dropFrame {
		return c.tc.DropFrameString()
	}
	return c.tc.String()
}

func (c *Clock) updateFrameCount() {
	c.frameCount = c.tc.FrameCount(c.fps)
}

func (c *Clock) updateTimecode() {
	c.tc = TimecodeFromFrameCount(c.frameCount, c.fps)
}
