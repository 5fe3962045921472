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
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

// EventType is the kind of change an event makes to a codec.
type EventType int

const (
	UserBits EventType = iota
	Timecode
	Flags
	FPS
	UserBitsClear
)

var eventTypeNames = []string{"UserBits", "Timecode", "Flags", "FPS", "UserBitsClear"}

func (t EventType) String() string {
	if t >= 0 && int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// ParseEventType looks an event type up by name, ignoring case.
func ParseEventType(s string) (EventType, error) {
	for i, name := range eventTypeNames {
		if strings.EqualFold(name, s) {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unrecognised event type: %q", s)
}

// Event is a single scripted change.
type Event struct {
	Type EventType
	Data string
}

func (e Event) String() string {
	if e.Data == "" {
		return e.Type.String()
	}
	return e.Type.String() + "=" + e.Data
}

// Target is what events are applied to. *vitc.Codec implements it.
type Target interface {
	SetUserBits(vitc.UserBits)
	ClearUserBits()
	SetTimecode(vitc.Timecode)
	SetFPS(int)
	SetColourFraming(bool)
	SetUserBitsFormat(bool)
	SetExternalClock(bool)
}

// NewEvent builds an event from its type name and data, checking that the
// data suits the type.
func NewEvent(typeName, data string) (Event, error) {
	t, err := ParseEventType(typeName)
	if err != nil {
		return Event{}, err
	}
	e := Event{Type: t, Data: data}
	if err := e.Validate(); err != nil {
		return Event{}, err
	}
	return e, nil
}

// Validate checks the event data without applying it.
func (e Event) Validate() error {
	switch e.Type {
	case UserBits:
		if e.Data == "" {
			return errors.New("UserBits event needs data")
		}
	case Timecode:
		if _, err := vitc.ParseTimecode(e.Data); err != nil {
			return err
		}
	case Flags:
		if _, err := parseFlags(e.Data); err != nil {
			return err
		}
	case FPS:
		if _, err := vitc.ParseFrameRate(e.Data); err != nil {
			return err
		}
	case UserBitsClear:
	default:
		return fmt.Errorf("unrecognised event type: %v", e.Type)
	}
	return nil
}

// Apply makes the change described by the event.
func (e Event) Apply(target Target) error {
	switch e.Type {
	case UserBits:
		target.SetUserBits(vitc.UserBitsFromString(e.Data))
	case Timecode:
		tc, err := vitc.ParseTimecode(e.Data)
		if err != nil {
			return err
		}
		target.SetTimecode(tc)
	case Flags:
		set, err := parseFlags(e.Data)
		if err != nil {
			return err
		}
		target.SetColourFraming(set[vitc.ColourFramingBit])
		target.SetUserBitsFormat(set[vitc.UserBitsFormatBit])
		target.SetExternalClock(set[vitc.ExternalClockBit])
	case FPS:
		rate, err := vitc.ParseFrameRate(e.Data)
		if err != nil {
			return err
		}
		target.SetFPS(int(rate))
	case UserBitsClear:
		target.ClearUserBits()
	default:
		return fmt.Errorf("unrecognised event type: %v", e.Type)
	}
	return nil
}

// parseFlags reads a comma separated list of the bit numbers of the caller
// settable flags. An empty list clears them all.
func parseFlags(s string) (map[int]bool, error) {
	set := make(map[int]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		bit, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid flag %q: %v", f, err)
		}
		switch bit {
		case vitc.ColourFramingBit, vitc.UserBitsFormatBit, vitc.ExternalClockBit:
			set[bit] = true
		default:
			return nil, fmt.Errorf("bit %d is not a settable flag", bit)
		}
	}
	return set, nil
}

// ParseEvent reads an event given as "HH:MM:SS:FF Type[=data]". Only the
// whitespace after the timecode is dropped; the data is kept as given.
func ParseEvent(s string) (vitc.Timecode, Event, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	split := strings.IndexFunc(s, unicode.IsSpace)
	if split < 0 {
		return vitc.Timecode{}, Event{}, fmt.Errorf("invalid event %q: expected \"HH:MM:SS:FF Type[=data]\"", s)
	}
	rest := strings.TrimLeftFunc(s[split:], unicode.IsSpace)
	if rest == "" {
		return vitc.Timecode{}, Event{}, fmt.Errorf("invalid event %q: expected \"HH:MM:SS:FF Type[=data]\"", s)
	}
	at, err := vitc.ParseTimecode(s[:split])
	if err != nil {
		return vitc.Timecode{}, Event{}, err
	}
	params := strings.SplitN(rest, "=", 2)
	data := ""
	if len(params) > 1 {
		data = params[1]
	}
	e, err := NewEvent(strings.TrimSpace(params[0]), data)
	if err != nil {
		return vitc.Timecode{}, Event{}, err
	}
	return at, e, nil
}
