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

package main

import (
	"errors"

	"github.com/godbus/dbus"
	"github.com/godbus/dbus/introspect"

	"github.com/TheCacophonyProject/vitc-generator/timeline"
)

const (
	dbusName = "org.cacophony.vitc"
	dbusPath = "/org/cacophony/vitc"
)

// controller is the part of the generator the service drives.
type controller interface {
	Push(timeline.Event)
	TimecodeString() string
	Written() int64
}

type service struct {
	gen controller
}

func startService(gen controller) error {
	conn, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	reply, err := conn.RequestName(dbusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return err
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("name already taken")
	}

	s := &service{
		gen: gen,
	}
	conn.Export(s, dbusPath, dbusName)
	conn.Export(genIntrospectable(s), dbusPath, "org.freedesktop.DBus.Introspectable")

	return nil
}

func genIntrospectable(v interface{}) introspect.Introspectable {
	node := &introspect.Node{
		Interfaces: []introspect.Interface{{
			Name:    dbusName,
			Methods: introspect.Methods(v),
		}},
	}
	return introspect.NewIntrospectable(node)
}

// Timecode returns the timecode of the last frame written, with ';' before
// the frames in drop-frame mode.
func (s *service) Timecode() (string, *dbus.Error) {
	return s.gen.TimecodeString(), nil
}

// FramesWritten returns the number of frames written so far.
func (s *service) FramesWritten() (int64, *dbus.Error) {
	return s.gen.Written(), nil
}

// SetUserBits sets the user bits from the next frame on.
func (s *service) SetUserBits(data string) *dbus.Error {
	return s.push("SetUserBits", "UserBits", data)
}

// ClearUserBits zeroes the user bits from the next frame on.
func (s *service) ClearUserBits() *dbus.Error {
	return s.push("ClearUserBits", "UserBitsClear", "")
}

// SetTimecode jumps the clock to tc at the next frame.
func (s *service) SetTimecode(tc string) *dbus.Error {
	return s.push("SetTimecode", "Timecode", tc)
}

// SetFlags sets the caller controlled flags, given as a comma separated
// list of bit numbers.
func (s *service) SetFlags(flags string) *dbus.Error {
	return s.push("SetFlags", "Flags", flags)
}

// SetFPS changes the frame rate at the next frame.
func (s *service) SetFPS(fps string) *dbus.Error {
	return s.push("SetFPS", "FPS", fps)
}

func (s *service) push(method, eventType, data string) *dbus.Error {
	e, err := timeline.NewEvent(eventType, data)
	if err != nil {
		return &dbus.Error{
			Name: dbusName + "." + method,
			Body: []interface{}{err.Error()},
		}
	}
	s.gen.Push(e)
	return nil
}
