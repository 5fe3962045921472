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
	"log"
	"time"

	"github.com/TheCacophonyProject/event-reporter/eventclient"
	"github.com/coreos/go-systemd/daemon"

	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

const runEventType = "vitcRun"

// sdNotifier tells systemd when the frame loop is up and that it is
// still making progress.
type sdNotifier struct{}

func (sdNotifier) Ready() {
	daemon.SdNotify(false, "READY=1")
}

func (sdNotifier) Alive() {
	daemon.SdNotify(false, "WATCHDOG=1")
}

type runStats interface {
	Written() int64
	Timecode() vitc.Timecode
}

func runEvent(start time.Time, gen runStats, runErr error) eventclient.Event {
	details := map[string]interface{}{
		"frames":   gen.Written(),
		"timecode": gen.Timecode().String(),
	}
	if runErr != nil {
		details["error"] = runErr.Error()
	}
	return eventclient.Event{
		Timestamp: start,
		Type:      runEventType,
		Details:   details,
	}
}

// reportRun records the finished run with the event reporter.
func reportRun(start time.Time, gen runStats, runErr error) {
	if err := eventclient.AddEvent(runEvent(start, gen, runErr)); err != nil {
		log.Printf("could not report run: %v", err)
	}
}
