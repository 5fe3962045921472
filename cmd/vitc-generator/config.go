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
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/TheCacophonyProject/vitc-generator/framebuffer"
	"github.com/TheCacophonyProject/vitc-generator/throttle"
	"github.com/TheCacophonyProject/vitc-generator/timeline"
	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

// Output formats.
const (
	formatFrames         = "frames"
	formatLines          = "lines"
	formatContainer      = "container"
	formatContainerLines = "container-lines"
)

type Config struct {
	Timecode     string               `yaml:"timecode"`
	FPS          int                  `yaml:"fps"`
	DropFrame    bool                 `yaml:"drop-frame"`
	Interlaced   bool                 `yaml:"interlaced"`
	Length       string               `yaml:"length"`
	Frames       int64                `yaml:"frames"`
	Input        string               `yaml:"input"`
	InputHeader  bool                 `yaml:"input-header"`
	Output       string               `yaml:"output"`
	OutputFormat string               `yaml:"output-format"`
	Compress     bool                 `yaml:"compress"`
	SourceName   string               `yaml:"source-name"`
	UserBits     string               `yaml:"user-bits"`
	Flags        FlagsConfig          `yaml:"flags"`
	Frame        FrameConfig          `yaml:"frame"`
	Pacer        throttle.PacerConfig `yaml:"pacer"`
	Events       []EventConfig        `yaml:"events"`
	DBus         bool                 `yaml:"dbus"`
	ReportEvents bool                 `yaml:"report-events"`
}

type FlagsConfig struct {
	ColourFraming  bool `yaml:"colour-framing"`
	UserBitsFormat bool `yaml:"user-bits-format"`
	ExternalClock  bool `yaml:"external-clock"`
}

type FrameConfig struct {
	Width       int                     `yaml:"width"`
	Height      int                     `yaml:"height"`
	PixelFormat framebuffer.PixelFormat `yaml:"pixel-format"`
	BitWidth    int                     `yaml:"bit-width"`
	LineHeight  int                     `yaml:"line-height"`
}

// EventConfig schedules an event for when the clock reaches At.
type EventConfig struct {
	At   string `yaml:"at"`
	Type string `yaml:"type"`
	Data string `yaml:"data"`
}

var defaultConfig = Config{
	Timecode:     "00:00:00:00",
	FPS:          int(vitc.PAL),
	Output:       "-",
	OutputFormat: formatFrames,
	Frame: FrameConfig{
		Width:       90,
		Height:      2,
		PixelFormat: framebuffer.Grayscale8,
		LineHeight:  1,
	},
	Pacer: throttle.DefaultPacerConfig(),
}

func ParseConfigFile(filename string) (*Config, error) {
	buf, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseConfig(buf)
}

func ParseConfig(buf []byte) (*Config, error) {
	conf := defaultConfig
	if err := yaml.Unmarshal(buf, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (conf *Config) Validate() error {
	if _, err := vitc.ParseTimecode(conf.Timecode); err != nil {
		return fmt.Errorf("timecode: %v", err)
	}
	if conf.FPS < 1 || conf.FPS > vitc.MaxFPS {
		return fmt.Errorf("fps must be between 1 and %d", vitc.MaxFPS)
	}
	if conf.Length != "" {
		if _, err := vitc.ParseTimecode(conf.Length); err != nil {
			return fmt.Errorf("length: %v", err)
		}
	}
	if conf.Frames < 0 {
		return errors.New("frames can't be negative")
	}
	switch conf.OutputFormat {
	case formatFrames, formatLines, formatContainer, formatContainerLines:
	default:
		return fmt.Errorf("unknown output format %q", conf.OutputFormat)
	}
	if err := conf.Frame.Validate(); err != nil {
		return err
	}
	return conf.Pacer.Validate()
}

func (conf *FrameConfig) Validate() error {
	if conf.Width < 1 || conf.Height < 1 {
		return errors.New("frame width and height must be at least 1")
	}
	if conf.LineHeight < 1 {
		return errors.New("line-height must be at least 1")
	}
	if conf.BitWidth < 0 {
		return errors.New("bit-width can't be negative")
	}
	return nil
}

// RunLength returns the number of frames to generate, 0 for no limit. An
// explicit frame count wins over a length given as a timecode.
func (conf *Config) RunLength() int64 {
	if conf.Frames > 0 {
		return conf.Frames
	}
	if conf.Length == "" {
		return 0
	}
	tc, err := vitc.ParseTimecode(conf.Length)
	if err != nil {
		return 0
	}
	return tc.FrameCount(conf.FPS)
}

// LinesOnly reports whether the output carries lines instead of pixels.
func (conf *Config) LinesOnly() bool {
	return conf.OutputFormat == formatLines || conf.OutputFormat == formatContainerLines
}

// Schedule turns the configured events into a schedule keyed by absolute
// frame count at the configured frame rate. Bad events are logged and
// skipped.
func (conf *Config) Schedule(logf func(string, ...interface{})) *timeline.Schedule {
	s := timeline.NewSchedule()
	for _, ec := range conf.Events {
		at, err := vitc.ParseTimecode(ec.At)
		if err != nil {
			logf("skipping event at %q: %v", ec.At, err)
			continue
		}
		e, err := timeline.NewEvent(ec.Type, ec.Data)
		if err != nil {
			logf("skipping event at %s: %v", at, err)
			continue
		}
		if conf.droppedFrame(at) {
			logf("event at %s falls on a dropped frame number and will never fire", at)
		}
		if s.Add(at.FrameCount(conf.FPS), e) {
			logf("event at %s replaces an earlier one", at)
		}
	}
	return s
}

// droppedFrame reports whether drop-frame counting skips over tc, which
// happens to frames 0 and 1 of each minute not divisible by ten.
func (conf *Config) droppedFrame(tc vitc.Timecode) bool {
	return conf.DropFrame && conf.FPS == int(vitc.NTSC) &&
		tc.Minute%10 != 0 && tc.Second == 0 && tc.Frame < 2
}
