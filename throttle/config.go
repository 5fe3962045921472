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

import "errors"

type PacerConfig struct {
	Realtime bool  `yaml:"realtime"`
	Burst    int64 `yaml:"burst"`
}

func DefaultPacerConfig() PacerConfig {
	return PacerConfig{
		Realtime: false,
		Burst:    1,
	}
}

func (conf *PacerConfig) Validate() error {
	if conf.Burst < 1 {
		return errors.New("burst must be at least 1")
	}
	return nil
}
