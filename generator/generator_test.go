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
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheCacophonyProject/vitc-generator/framebuffer"
	"github.com/TheCacophonyProject/vitc-generator/output"
	"github.com/TheCacophonyProject/vitc-generator/timeline"
	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

type captureSink struct {
	frames []*output.Frame
	closed bool
	err    error
}

func (s *captureSink) WriteFrame(f *output.Frame) error {
	if s.err != nil {
		return s.err
	}
	c := *f
	if f.Pixels != nil {
		c.Pixels = append([]byte(nil), f.Pixels...)
	}
	s.frames = append(s.frames, &c)
	return nil
}

func (s *captureSink) Close() error {
	s.closed = true
	return nil
}

type countingNotifier struct {
	ready, alive int
}

func (n *countingNotifier) Ready() { n.ready++ }
func (n *countingNotifier) Alive() { n.alive++ }

func TestGeometry(t *testing.T) {
	g := NewGeometry(720, 576, 0, 1, false)
	assert.Equal(t, Geometry{BitWidth: 8, LineHeight: 1, Left: 0, Top: 287}, g)
	assert.Equal(t, 287, g.FieldRow(0))
	assert.Equal(t, 288, g.FieldRow(1))

	g = NewGeometry(100, 576, 0, 2, true)
	assert.Equal(t, Geometry{BitWidth: 1, LineHeight: 2, Left: 5, Top: 1}, g)
	assert.Equal(t, 6, g.BlankHeight())

	// Narrower than the line still draws one column per bit.
	g = NewGeometry(45, 1, 0, 1, false)
	assert.Equal(t, 1, g.BitWidth)
	assert.Equal(t, 0, g.Left)
	assert.Equal(t, 0, g.Top)

	g = NewGeometry(720, 576, 4, 1, false)
	assert.Equal(t, 180, g.Left)
}

func TestLinesOnly(t *testing.T) {
	sink := new(captureSink)
	g, err := New(Config{LinesOnly: true, Length: 3}, vitc.New(), sink)
	require.NoError(t, err)

	require.NoError(t, g.Run(context.Background()))
	require.Len(t, sink.frames, 3)
	for i, f := range sink.frames {
		assert.Equal(t, int64(i), f.Number)
		assert.Equal(t, int64(i), f.FrameCount)
		assert.Equal(t, vitc.Timecode{Frame: i}, f.Timecode)
		assert.Len(t, f.Fields, 1)
		assert.Nil(t, f.Pixels)
	}
	assert.Equal(t, int64(3), g.Written())
	assert.Equal(t, vitc.Timecode{Frame: 2}, g.Timecode())
}

func TestInterlacedFields(t *testing.T) {
	codec := vitc.New()
	codec.SetInterlaced(true)
	sink := new(captureSink)
	g, err := New(Config{LinesOnly: true, Length: 2}, codec, sink)
	require.NoError(t, err)

	require.NoError(t, g.Run(context.Background()))
	require.Len(t, sink.frames, 2)
	for _, f := range sink.frames {
		require.Len(t, f.Fields, 2)
		assert.False(t, f.Fields[0][vitc.PALSecondFieldBit])
		assert.True(t, f.Fields[1][vitc.PALSecondFieldBit])
	}
	// Each frame starts on the first field.
	assert.False(t, codec.IsSecondField())
}

func TestRender(t *testing.T) {
	sink := new(captureSink)
	conf := Config{
		Width:       90,
		Height:      4,
		PixelFormat: framebuffer.Grayscale8,
		LineHeight:  1,
		Length:      1,
	}
	g, err := New(conf, vitc.New(), sink)
	require.NoError(t, err)

	require.NoError(t, g.Run(context.Background()))
	require.Len(t, sink.frames, 1)
	pix := sink.frames[0].Pixels
	require.Len(t, pix, 90*4)

	line := sink.frames[0].Fields[0].Bytes()
	assert.Equal(t, make([]byte, 90), pix[0:90])
	assert.Equal(t, line, pix[90:180])
	// Progressive frames repeat the line for the second field.
	assert.Equal(t, line, pix[180:270])
	assert.Equal(t, make([]byte, 90), pix[270:360])
}

func TestUnsupportedPixelFormat(t *testing.T) {
	_, err := New(Config{Width: 90, Height: 4, PixelFormat: framebuffer.Null}, vitc.New(), new(captureSink))
	assert.Error(t, err)
}

func TestEmbed(t *testing.T) {
	const frameSize = 90 * 6
	input := bytes.Repeat([]byte{0x7f}, 2*frameSize)

	sink := new(captureSink)
	conf := Config{
		Width:       90,
		Height:      6,
		PixelFormat: framebuffer.Grayscale8,
		LineHeight:  1,
	}
	g, err := New(conf, vitc.New(), sink)
	require.NoError(t, err)
	g.SetInput(bytes.NewReader(input))

	// Input ending on a frame boundary with no length set stops cleanly.
	require.NoError(t, g.Run(context.Background()))
	require.Len(t, sink.frames, 2)

	for _, f := range sink.frames {
		pix := f.Pixels
		line := f.Fields[0].Bytes()
		assert.Equal(t, make([]byte, 90), pix[0:90])
		assert.Equal(t, line, pix[90:180])
		assert.Equal(t, line, pix[180:270])
		assert.Equal(t, make([]byte, 90), pix[270:360])
		assert.Equal(t, bytes.Repeat([]byte{0x7f}, 180), pix[360:540])
	}
}

func TestEmbedPartialFrame(t *testing.T) {
	const frameSize = 90 * 6
	sink := new(captureSink)
	conf := Config{Width: 90, Height: 6, PixelFormat: framebuffer.Grayscale8, LineHeight: 1}
	g, err := New(conf, vitc.New(), sink)
	require.NoError(t, err)
	g.SetInput(bytes.NewReader(make([]byte, frameSize+10)))

	err = g.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsEndOfStream(err))
	assert.Equal(t, ErrEndOfStream, err.(*endOfStreamErr).Unwrap())
	assert.Contains(t, err.Error(), "partial frame at frame 1")
	assert.Len(t, sink.frames, 1)
}

func TestEmbedShortOfLength(t *testing.T) {
	const frameSize = 90 * 6
	sink := new(captureSink)
	conf := Config{Width: 90, Height: 6, PixelFormat: framebuffer.Grayscale8, LineHeight: 1, Length: 3}
	g, err := New(conf, vitc.New(), sink)
	require.NoError(t, err)
	g.SetInput(bytes.NewReader(make([]byte, 2*frameSize)))

	err = g.Run(context.Background())
	assert.True(t, IsEndOfStream(err))
	assert.Len(t, sink.frames, 2)
}

func TestEmbedNeedsFramebuffer(t *testing.T) {
	g, err := New(Config{LinesOnly: true}, vitc.New(), new(captureSink))
	require.NoError(t, err)
	g.SetInput(strings.NewReader(""))
	assert.Error(t, g.Run(context.Background()))
}

func TestScheduledEvents(t *testing.T) {
	_, reset := captureLogs()
	defer reset()

	s := timeline.NewSchedule()
	ub, err := timeline.NewEvent("UserBits", "ABCD")
	require.NoError(t, err)
	s.Add(1, ub)
	clearBits, err := timeline.NewEvent("UserBitsClear", "")
	require.NoError(t, err)
	s.Add(3, clearBits)

	sink := new(captureSink)
	g, err := New(Config{LinesOnly: true, Length: 4}, vitc.New(), sink)
	require.NoError(t, err)
	g.SetSchedule(s)

	require.NoError(t, g.Run(context.Background()))
	require.Len(t, sink.frames, 4)
	assert.True(t, sink.frames[0].UserBits.IsZero())
	assert.Equal(t, vitc.UserBitsFromString("ABCD"), sink.frames[1].UserBits)
	assert.Equal(t, vitc.UserBitsFromString("ABCD"), sink.frames[2].UserBits)
	assert.True(t, sink.frames[3].UserBits.IsZero())
	assert.Equal(t, 0, s.Len())
}

func TestTimecodeEventFiresOnce(t *testing.T) {
	_, reset := captureLogs()
	defer reset()

	s := timeline.NewSchedule()
	jump, err := timeline.NewEvent("Timecode", "00:00:00:00")
	require.NoError(t, err)
	s.Add(2, jump)

	sink := new(captureSink)
	g, err := New(Config{LinesOnly: true, Length: 5}, vitc.New(), sink)
	require.NoError(t, err)
	g.SetSchedule(s)

	require.NoError(t, g.Run(context.Background()))
	var frames []int
	for _, f := range sink.frames {
		frames = append(frames, f.Timecode.Frame)
	}
	assert.Equal(t, []int{0, 1, 0, 1, 2}, frames)
}

func TestPushedEvents(t *testing.T) {
	_, reset := captureLogs()
	defer reset()

	sink := new(captureSink)
	g, err := New(Config{LinesOnly: true, Length: 1}, vitc.New(), sink)
	require.NoError(t, err)

	e, err := timeline.NewEvent("Timecode", "10:00:00:00")
	require.NoError(t, err)
	g.Push(e)

	require.NoError(t, g.Run(context.Background()))
	require.Len(t, sink.frames, 1)
	assert.Equal(t, vitc.Timecode{Hour: 10}, sink.frames[0].Timecode)
	assert.Equal(t, vitc.Timecode{Hour: 10}, g.Timecode())
}

func TestTimecodeStringDropFrame(t *testing.T) {
	codec := vitc.New()
	codec.SetFPS(int(vitc.NTSC))
	codec.SetDropFrame(true)
	codec.SetTimecode(vitc.Timecode{Minute: 1, Frame: 2})

	g, err := New(Config{LinesOnly: true, Length: 1}, codec, new(captureSink))
	require.NoError(t, err)
	assert.Equal(t, "00:01:00;02", g.TimecodeString())

	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, "00:01:00;02", g.TimecodeString())
	assert.Equal(t, vitc.Timecode{Minute: 1, Frame: 2}, g.Timecode())
}

func TestSinkError(t *testing.T) {
	sink := &captureSink{err: errors.New("disk full")}
	g, err := New(Config{LinesOnly: true}, vitc.New(), sink)
	require.NoError(t, err)
	assert.EqualError(t, g.Run(context.Background()), "disk full")
	assert.Equal(t, int64(0), g.Written())
}

func TestCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := New(Config{LinesOnly: true}, vitc.New(), new(captureSink))
	require.NoError(t, err)
	assert.Equal(t, context.Canceled, g.Run(ctx))
}

func TestNotifier(t *testing.T) {
	_, reset := captureLogs()
	defer reset()

	n := new(countingNotifier)
	g, err := New(Config{LinesOnly: true, Length: 250}, vitc.New(), new(captureSink))
	require.NoError(t, err)
	g.SetNotifier(n)

	require.NoError(t, g.Run(context.Background()))
	assert.Equal(t, 1, n.ready)
	assert.Equal(t, 2, n.alive)
}

func TestProgressLogging(t *testing.T) {
	logs, reset := captureLogs()
	defer reset()

	g, err := New(Config{LinesOnly: true, Length: 25 * 60}, vitc.New(), new(captureSink))
	require.NoError(t, err)
	require.NoError(t, g.Run(context.Background()))

	assert.Equal(t, "375 frames written\n750 frames written\n1125 frames written\n1500 frames written\n", logs.String())
}

func captureLogs() (*bytes.Buffer, func()) {
	flags := log.Flags()
	log.SetFlags(0)

	logs := new(bytes.Buffer)
	log.SetOutput(logs)

	return logs, func() {
		log.SetOutput(os.Stderr)
		log.SetFlags(flags)
	}
}
