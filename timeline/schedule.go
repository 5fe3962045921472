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

package timeline

import (
	"sort"
	"sync"
)

// Schedule maps absolute frame counts to the event to apply on that frame.
// Each frame holds at most one event and an event fires once.
type Schedule struct {
	events map[int64]Event
}

func NewSchedule() *Schedule {
	return &Schedule{events: make(map[int64]Event)}
}

// Add schedules e for frame, returning true if it replaced an event that
// was already there.
func (s *Schedule) Add(frame int64, e Event) bool {
	_, replaced := s.events[frame]
	s.events[frame] = e
	return replaced
}

// Take removes and returns the event for frame.
func (s *Schedule) Take(frame int64) (Event, bool) {
	e, ok := s.events[frame]
	if ok {
		delete(s.events, frame)
	}
	return e, ok
}

func (s *Schedule) Len() int {
	return len(s.events)
}

// Frames returns the scheduled frame counts in order.
func (s *Schedule) Frames() []int64 {
	frames := make([]int64, 0, len(s.events))
	for f := range s.events {
		frames = append(frames, f)
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i] < frames[j] })
	return frames
}

// Queue holds events pushed from other goroutines (e.g. a control service)
// until the frame loop drains them at the next frame.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

func (q *Queue) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

// Drain returns the queued events, oldest first, and empties the queue.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}
