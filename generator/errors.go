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

import (
	"errors"
	"fmt"
)

// ErrEndOfStream is the cause of every error returned when the input runs
// out before the run is over.
var ErrEndOfStream = errors.New("input stream ended")

type endOfStreamErr struct {
	frame   int64
	partial bool
}

func (e *endOfStreamErr) Error() string {
	if e.partial {
		return fmt.Sprintf("%v: partial frame at frame %d", ErrEndOfStream, e.frame)
	}
	return fmt.Sprintf("%v: at frame %d", ErrEndOfStream, e.frame)
}

func (e *endOfStreamErr) Unwrap() error {
	return ErrEndOfStream
}

// IsEndOfStream reports whether err came from the input running out.
func IsEndOfStream(err error) bool {
	_, ok := err.(*endOfStreamErr)
	return ok
}
