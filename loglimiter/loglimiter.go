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

package loglimiter

import (
	"fmt"
	"log"
	"time"
)

// New returns a new LogLimiter with the configured minimum log interval.
func New(interval time.Duration) *LogLimiter {
	return &LogLimiter{
		interval: interval,
		nowFunc:  time.Now,
		last:     make(map[string]time.Time),
		counts:   make(map[string]int),
	}
}

// LogLimiter rate limits log messages by kind. Messages logged through
// Printf are grouped by their format string, so "behind by %d frames"
// is limited however its arguments vary. When a message gets through
// after others of its kind were dropped, the number dropped is appended.
type LogLimiter struct {
	interval time.Duration
	nowFunc  func() time.Time
	last     map[string]time.Time
	counts   map[string]int
}

func (limiter *LogLimiter) Printf(format string, v ...interface{}) {
	limiter.log(format, fmt.Sprintf(format, v...))
}

func (limiter *LogLimiter) Print(s string) {
	limiter.log(s, s)
}

func (limiter *LogLimiter) log(key, s string) {
	now := limiter.nowFunc()
	if last, ok := limiter.last[key]; ok && now.Sub(last) < limiter.interval {
		limiter.counts[key]++
		return
	}

	if n := limiter.counts[key]; n > 0 {
		s = fmt.Sprintf("%s (%d similar suppressed)", s, n)
	}
	log.Print(s)
	limiter.last[key] = now
	limiter.counts[key] = 0
}
