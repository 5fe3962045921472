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

package throttle

import (
	"time"

	"github.com/juju/ratelimit"
)

func NewPacer(fps int, burst int64) *Pacer {
	return NewPacerWithClock(fps, burst, new(realClock))
}

// NewPacerWithClock returns a Pacer that lets fps frames through per
// second of clock time, allowing up to burst frames to go through
// back to back after a stall.
func NewPacerWithClock(fps int, burst int64, clock ratelimit.Clock) *Pacer {
	p := &Pacer{
		burst: burst,
		clock: clock,
	}
	p.SetFPS(fps)
	return p
}

// Pacer holds a frame loop to real time. Each frame takes one token from
// a bucket that refills at the frame rate.
type Pacer struct {
	bucket  *ratelimit.Bucket
	burst   int64
	clock   ratelimit.Clock
	fps     int
	started bool
}

// SetFPS changes the rate frames are let through at. The new bucket starts
// full, so the next frame isn't counted as late.
func (p *Pacer) SetFPS(fps int) {
	if fps == p.fps {
		return
	}
	p.fps = fps
	p.bucket = ratelimit.NewBucketWithRateAndClock(float64(fps), p.burst, p.clock)
	p.started = false
}

func (p *Pacer) FPS() int {
	return p.fps
}

// Wait blocks until the next frame is due. It returns true if the bucket
// had filled up since the previous frame, meaning the loop isn't keeping
// up with real time.
func (p *Pacer) Wait() bool {
	behind := p.started && p.bucket.Available() >= p.bucket.Capacity()
	p.started = true
	p.bucket.Wait(1)
	return behind
}

// realClock implements ratelimit.Clock in terms of standard time functions.
type realClock struct{}

// Now implements Clock.Now by calling time.Now.
func (realClock) Now() time.Time {
	return time.Now()
}

// Now implements Clock.Sleep by calling time.Sleep.
func (realClock) Sleep(d time.Duration) {
	time.Sleep(d)
}
