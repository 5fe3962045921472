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
	"bufio"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/vitc-generator/framebuffer"
	"github.com/TheCacophonyProject/vitc-generator/headers"
	"github.com/TheCacophonyProject/vitc-generator/timeline"
	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

func collectLogs() (*[]string, func(string, ...interface{})) {
	var logged []string
	return &logged, func(format string, v ...interface{}) {
		logged = append(logged, format)
	}
}

func TestApplyArgs(t *testing.T) {
	logged, logf := collectLogs()
	conf := defaultConfig
	applyArgs(&conf, Args{
		Output:      "out.raw",
		Input:       "-",
		PixelFormat: "YUV444P16",
		Size:        "720x576",
		FPS:         "30",
		Timecode:    "01:02:03:04",
		Length:      "00:00:10:00",
		Frames:      "12",
		UserBits:    "TAPE",
		Events:      []string{"00:00:01:00 UserBits=ABCD", "00:00:02:00 UserBitsClear"},
		Interlaced:  true,
		DropFrame:   true,
		Realtime:    true,
		Raw:         true,
		DBus:        true,
	}, logf)

	assert.Empty(t, *logged)
	assert.Equal(t, "out.raw", conf.Output)
	assert.Equal(t, "-", conf.Input)
	assert.Equal(t, framebuffer.YUV444P16, conf.Frame.PixelFormat)
	assert.Equal(t, 720, conf.Frame.Width)
	assert.Equal(t, 576, conf.Frame.Height)
	assert.Equal(t, 30, conf.FPS)
	assert.Equal(t, "01:02:03:04", conf.Timecode)
	assert.Equal(t, "00:00:10:00", conf.Length)
	assert.Equal(t, int64(12), conf.Frames)
	assert.Equal(t, "TAPE", conf.UserBits)
	assert.Equal(t, []EventConfig{
		{At: "00:00:01:00", Type: "UserBits", Data: "ABCD"},
		{At: "00:00:02:00", Type: "UserBitsClear"},
	}, conf.Events)
	assert.True(t, conf.Interlaced)
	assert.True(t, conf.DropFrame)
	assert.True(t, conf.Pacer.Realtime)
	assert.True(t, conf.DBus)
	assert.False(t, conf.ReportEvents)
	assert.Equal(t, formatLines, conf.OutputFormat)

	// Defaults are left alone.
	assert.Equal(t, 25, defaultConfig.FPS)
	assert.Nil(t, defaultConfig.Events)
}

func TestApplyArgsBadValuesFallBack(t *testing.T) {
	logged, logf := collectLogs()
	conf := defaultConfig
	applyArgs(&conf, Args{
		PixelFormat: "CMYK",
		Size:        "720by576",
		FPS:         "fast",
		Timecode:    "noon",
		Length:      "1:00",
		Frames:      "-3",
		Events:      []string{"00:00:01:00", "00:00:01:00 Bogus=1", "00:00:02:00 UserBitsClear"},
	}, logf)

	assert.Len(t, *logged, 8)
	assert.Equal(t, defaultConfig.Frame, conf.Frame)
	assert.Equal(t, 25, conf.FPS)
	assert.Equal(t, "00:00:00:00", conf.Timecode)
	assert.Equal(t, "", conf.Length)
	assert.Equal(t, int64(0), conf.Frames)
	assert.Equal(t, []EventConfig{{At: "00:00:02:00", Type: "UserBitsClear"}}, conf.Events)
	assert.Equal(t, formatFrames, conf.OutputFormat)
}

func TestApplyArgsContainer(t *testing.T) {
	_, logf := collectLogs()

	conf := defaultConfig
	applyArgs(&conf, Args{Container: true, Compress: true}, logf)
	assert.Equal(t, formatContainer, conf.OutputFormat)
	assert.True(t, conf.Compress)

	conf = defaultConfig
	applyArgs(&conf, Args{Container: true, Raw: true}, logf)
	assert.Equal(t, formatContainerLines, conf.OutputFormat)
}

func TestParseSize(t *testing.T) {
	w, h, err := parseSize("1920X1080")
	require.NoError(t, err)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	for _, s := range []string{"", "1920", "x1080", "1920x", "0x10", "axb", "1x2x3"} {
		_, _, err := parseSize(s)
		assert.Error(t, err, s)
	}
}

func TestApplyHeader(t *testing.T) {
	header, err := headers.ReadHeaderInfo(bufio.NewReader(strings.NewReader(
		"ResX: 720\nResY: 486\nFPS: 30\nPixelFormat: Grayscale16\nSource: deck-b\n\n")))
	require.NoError(t, err)
	require.NoError(t, header.Validate())

	conf := defaultConfig
	applyHeader(&conf, header)
	assert.Equal(t, 720, conf.Frame.Width)
	assert.Equal(t, 486, conf.Frame.Height)
	assert.Equal(t, framebuffer.Grayscale16, conf.Frame.PixelFormat)
	assert.Equal(t, 30, conf.FPS)
	assert.Equal(t, "deck-b", conf.SourceName)

	// A configured source name wins.
	conf = defaultConfig
	conf.SourceName = "mine"
	applyHeader(&conf, header)
	assert.Equal(t, "mine", conf.SourceName)
}

func TestNewCodec(t *testing.T) {
	conf := defaultConfig
	conf.FPS = 30
	conf.DropFrame = true
	conf.Interlaced = true
	conf.Timecode = "00:10:00;00"
	conf.UserBits = "AB"
	conf.Flags.ExternalClock = true

	codec := newCodec(&conf)
	assert.Equal(t, 30, codec.FPS())
	assert.True(t, codec.DropFrame())
	assert.True(t, codec.Interlaced())
	assert.Equal(t, vitc.Timecode{Minute: 10}, codec.Timecode())
	assert.Equal(t, int64(18000), codec.FrameCount())
	assert.Equal(t, vitc.UserBits{'A', 'B', 0, 0}, codec.UserBits())
	assert.True(t, codec.Flags().ExternalClock)
	assert.False(t, codec.Flags().ColourFraming)
}

type fakeGenerator struct {
	pushed    []timeline.Event
	timecode  vitc.Timecode
	dropFrame bool
	written   int64
}

func (g *fakeGenerator) Push(e timeline.Event) { g.pushed = append(g.pushed, e) }
func (g *fakeGenerator) Timecode() vitc.Timecode { return g.timecode }
func (g *fakeGenerator) Written() int64 { return g.written }

func (g *fakeGenerator) TimecodeString() string {
	if g.dropFrame {
		return g.timecode.DropFrameString()
	}
	return g.timecode.String()
}

func TestServiceQueuesEvents(t *testing.T) {
	gen := &fakeGenerator{timecode: vitc.Timecode{Hour: 1, Frame: 5}, written: 42}
	s := &service{gen: gen}

	tc, derr := s.Timecode()
	assert.Nil(t, derr)
	assert.Equal(t, "01:00:00:05", tc)
	n, derr := s.FramesWritten()
	assert.Nil(t, derr)
	assert.Equal(t, int64(42), n)

	assert.Nil(t, s.SetUserBits("ABCD"))
	assert.Nil(t, s.ClearUserBits())
	assert.Nil(t, s.SetTimecode("02:00:00:00"))
	assert.Nil(t, s.SetFlags("15,74"))
	assert.Nil(t, s.SetFPS("30"))

	assert.Equal(t, []timeline.Event{
		{Type: timeline.UserBits, Data: "ABCD"},
		{Type: timeline.UserBitsClear},
		{Type: timeline.Timecode, Data: "02:00:00:00"},
		{Type: timeline.Flags, Data: "15,74"},
		{Type: timeline.FPS, Data: "30"},
	}, gen.pushed)
}

func TestServiceTimecodeDropFrame(t *testing.T) {
	gen := &fakeGenerator{timecode: vitc.Timecode{Minute: 1, Frame: 2}, dropFrame: true}
	s := &service{gen: gen}

	tc, derr := s.Timecode()
	assert.Nil(t, derr)
	assert.Equal(t, "00:01:00;02", tc)
}

func TestServiceRejectsBadValues(t *testing.T) {
	gen := new(fakeGenerator)
	s := &service{gen: gen}

	derr := s.SetTimecode("soon")
	require.NotNil(t, derr)
	assert.Equal(t, dbusName+".SetTimecode", derr.Name)
	assert.NotNil(t, s.SetFPS("100"))
	assert.NotNil(t, s.SetFlags("14"))
	assert.Empty(t, gen.pushed)
}

func TestRunEvent(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	gen := &fakeGenerator{timecode: vitc.Timecode{Second: 4}, written: 100}

	e := runEvent(start, gen, nil)
	assert.Equal(t, start, e.Timestamp)
	assert.Equal(t, runEventType, e.Type)
	assert.Equal(t, map[string]interface{}{
		"frames":   int64(100),
		"timecode": "00:00:04:00",
	}, e.Details)

	e = runEvent(start, gen, errors.New("input stream ended"))
	assert.Equal(t, "input stream ended", e.Details["error"])
}
