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
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"github.com/TheCacophonyProject/vitc-generator/framebuffer"
	"github.com/TheCacophonyProject/vitc-generator/loglimiter"
	"github.com/TheCacophonyProject/vitc-generator/output"
	"github.com/TheCacophonyProject/vitc-generator/throttle"
	"github.com/TheCacophonyProject/vitc-generator/timeline"
	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

const (
	lineBits = vitc.LineBits

	secsPerNotify        = 5
	frameLogSecsFirstMin = 15
	frameLogSecs         = 60 * 5
	warningLogInterval   = 10 * time.Second
)

const (
	blankIntensity float32 = 0
	clrIntensity   float32 = 0
	setIntensity   float32 = 1
)

// Notifier is told when the frame loop starts and, every few seconds of
// output, that it is still running.
type Notifier interface {
	Ready()
	Alive()
}

type Config struct {
	Width       int
	Height      int
	PixelFormat framebuffer.PixelFormat
	// BitWidth is the number of columns per bit, 0 to fit the frame width.
	BitWidth   int
	LineHeight int
	// Length is the number of frames to generate, 0 to run until stopped
	// or until the input ends.
	Length int64
	// LinesOnly skips rendering. Frames then carry only their lines.
	LinesOnly bool
}

// Generator runs the frame loop: it applies scheduled and live events,
// generates the line for each field, renders it and hands the frame to a
// Sink before stepping the clock.
type Generator struct {
	conf     Config
	codec    *vitc.Codec
	sink     output.Sink
	schedule *timeline.Schedule
	queue    timeline.Queue
	fb       framebuffer.Framebuffer
	geometry Geometry
	input    io.Reader
	pacer    *throttle.Pacer
	notifier Notifier
	limiter  *loglimiter.LogLimiter

	mu           sync.Mutex
	current      vitc.Timecode
	currentLabel string
	written      int64
}

// New returns a Generator driving codec. Unless conf.LinesOnly is set a
// framebuffer is allocated for conf.PixelFormat, which fails for formats
// that can't be rendered.
func New(conf Config, codec *vitc.Codec, sink output.Sink) (*Generator, error) {
	g := &Generator{
		conf:     conf,
		codec:    codec,
		sink:     sink,
		schedule: timeline.NewSchedule(),
		limiter:  loglimiter.New(warningLogInterval),
		current:  codec.Timecode(),
	}
	g.currentLabel = codec.String()
	if !conf.LinesOnly {
		fb, err := framebuffer.New(conf.PixelFormat, conf.Width, conf.Height)
		if err != nil {
			return nil, err
		}
		g.fb = fb
	}
	return g, nil
}

// SetInput makes the generator an embedder: each frame is read from r and
// the line is drawn over its top rows.
func (g *Generator) SetInput(r io.Reader) {
	g.input = r
}

func (g *Generator) SetSchedule(s *timeline.Schedule) {
	g.schedule = s
}

// SetPacer limits output to the codec's frame rate.
func (g *Generator) SetPacer(p *throttle.Pacer) {
	g.pacer = p
}

func (g *Generator) SetNotifier(n Notifier) {
	g.notifier = n
}

// Push queues an event to be applied at the start of the next frame. It
// is safe to call while Run is in progress.
func (g *Generator) Push(e timeline.Event) {
	g.queue.Push(e)
}

// Timecode returns the timecode of the last frame written.
func (g *Generator) Timecode() vitc.Timecode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// TimecodeString returns the timecode of the last frame written in the
// form the clock prints it, with ';' before the frames in drop-frame mode.
func (g *Generator) TimecodeString() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentLabel
}

// Written returns the number of frames written so far.
func (g *Generator) Written() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.written
}

// Run generates frames until the configured length is reached, the input
// ends on a frame boundary or ctx is done. Input ending anywhere else is
// an end of stream error.
func (g *Generator) Run(ctx context.Context) error {
	if g.input != nil && g.fb == nil {
		return errors.New("embedding input frames needs a pixel format")
	}
	if g.fb != nil {
		g.geometry = NewGeometry(g.conf.Width, g.conf.Height, g.conf.BitWidth, g.conf.LineHeight, g.input != nil)
	}

	if g.notifier != nil {
		g.notifier.Ready()
	}
	notifyCount := 0

	for n := int64(0); g.conf.Length == 0 || n < g.conf.Length; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if g.input != nil {
			if err := g.readFrame(n); err == io.EOF {
				log.Printf("input ended after %d frames", n)
				return nil
			} else if err != nil {
				return err
			}
		}

		g.applyEvents()
		frame := g.nextFrame(n)

		if g.pacer != nil && g.pacer.Wait() {
			g.limiter.Printf("running behind real time at %s", frame.Timecode)
		}
		if err := g.sink.WriteFrame(frame); err != nil {
			return err
		}

		g.mu.Lock()
		g.current = frame.Timecode
		g.currentLabel = g.codec.String()
		g.written = n + 1
		g.mu.Unlock()

		fps := int64(g.codec.FPS())
		g.logProgress(n+1, fps)
		if g.notifier != nil {
			if notifyCount++; int64(notifyCount) >= secsPerNotify*fps {
				g.notifier.Alive()
				notifyCount = 0
			}
		}

		g.codec.StepOneFrame()
	}
	return nil
}

// readFrame fills the framebuffer from the input and blanks the rows the
// line is drawn over. A clean io.EOF is only returned when no length is
// configured.
func (g *Generator) readFrame(n int64) error {
	_, err := io.ReadFull(g.input, g.fb.Bytes())
	switch err {
	case nil:
	case io.EOF:
		if g.conf.Length == 0 {
			return io.EOF
		}
		return &endOfStreamErr{frame: n}
	case io.ErrUnexpectedEOF:
		return &endOfStreamErr{frame: n, partial: true}
	default:
		return err
	}

	g.fb.DrawRectangle(0, 0, g.fb.Width(), g.geometry.BlankHeight(), blankIntensity)
	return nil
}

func (g *Generator) applyEvents() {
	if e, ok := g.schedule.Take(g.codec.FrameCount()); ok {
		g.apply(e)
	}
	for _, e := range g.queue.Drain() {
		g.apply(e)
	}
	if g.pacer != nil && g.pacer.FPS() != g.codec.FPS() {
		g.pacer.SetFPS(g.codec.FPS())
	}
}

func (g *Generator) apply(e timeline.Event) {
	if err := e.Apply(g.codec); err != nil {
		g.limiter.Printf("failed to apply event: %v", err)
		return
	}
	log.Printf("%s: %s", g.codec, e)
}

func (g *Generator) nextFrame(n int64) *output.Frame {
	frame := &output.Frame{
		Number:     n,
		FrameCount: g.codec.FrameCount(),
		Timecode:   g.codec.Timecode(),
		UserBits:   g.codec.UserBits(),
	}

	first := g.codec.Generate()
	g.codec.SwitchFieldType()
	second := g.codec.Generate()

	frame.Fields = []vitc.Line{first}
	if g.codec.Interlaced() {
		frame.Fields = append(frame.Fields, second)
	}

	if g.fb != nil {
		g.drawLine(first, g.geometry.FieldRow(0))
		g.drawLine(second, g.geometry.FieldRow(1))
		frame.Pixels = g.fb.Bytes()
	}
	return frame
}

func (g *Generator) drawLine(line vitc.Line, y int) {
	for i, bit := range line {
		v := clrIntensity
		if bit {
			v = setIntensity
		}
		g.fb.DrawRectangle(g.geometry.Left+i*g.geometry.BitWidth, y, g.geometry.BitWidth, g.geometry.LineHeight, v)
	}
}

func (g *Generator) logProgress(written, fps int64) {
	if written%(frameLogSecsFirstMin*fps) == 0 &&
		written <= 60*fps || written%(frameLogSecs*fps) == 0 {
		log.Printf("%d frames written", written)
	}
}
