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
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	arg "github.com/alexflint/go-arg"

	"github.com/TheCacophonyProject/vitc-generator/framebuffer"
	"github.com/TheCacophonyProject/vitc-generator/generator"
	"github.com/TheCacophonyProject/vitc-generator/headers"
	"github.com/TheCacophonyProject/vitc-generator/output"
	"github.com/TheCacophonyProject/vitc-generator/throttle"
	"github.com/TheCacophonyProject/vitc-generator/timeline"
	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

var version = "<not set>"

// Value flags are taken as strings and parsed afterwards so that a bad
// value can be reported and ignored.
type Args struct {
	ConfigFile   string   `arg:"-c,--config" help:"path to configuration file"`
	Output       string   `arg:"-o,--output" help:"output file, - for stdout"`
	Input        string   `arg:"-i,--input" help:"frames to embed the line in, - for stdin"`
	PixelFormat  string   `arg:"-f,--pixel-format" help:"pixel format of the frames"`
	Size         string   `arg:"-s,--size" help:"frame size as WIDTHxHEIGHT"`
	FPS          string   `arg:"--fps" help:"frame rate, 24 (film), 25 (PAL), 30 (NTSC) or anything up to 39"`
	Timecode     string   `arg:"--tc" help:"starting timecode HH:MM:SS:FF"`
	Length       string   `arg:"-t,--length" help:"run length as HH:MM:SS:FF"`
	Frames       string   `arg:"-n,--frames" help:"run length in frames"`
	UserBits     string   `arg:"-u,--user-bits" help:"initial user bits, up to 4 characters"`
	Events       []string `arg:"-e,--event,separate" help:"schedule an event: \"HH:MM:SS:FF Type[=data]\""`
	Interlaced   bool     `arg:"-I,--interlaced" help:"generate a line for each field"`
	DropFrame    bool     `arg:"-d,--drop-frames" help:"drop frame counting (30fps only)"`
	Raw          bool     `arg:"--raw" help:"write lines as bytes instead of rendered frames"`
	Container    bool     `arg:"--container" help:"write a sectioned container"`
	Compress     bool     `arg:"--compress" help:"gzip the container"`
	Realtime     bool     `arg:"--realtime" help:"write frames no faster than the frame rate"`
	InputHeader  bool     `arg:"--input-header" help:"input starts with a YAML header describing its frames"`
	DBus         bool     `arg:"--dbus" help:"start the live control service"`
	ReportEvents bool     `arg:"--report-events" help:"report finished runs to the event reporter"`
	Timestamps   bool     `arg:"--timestamps" help:"include timestamps in log output"`
}

func (Args) Version() string {
	return version
}

func procArgs() Args {
	var args Args
	arg.MustParse(&args)
	return args
}

func main() {
	err := runMain()
	if err != nil {
		log.Fatal(err)
	}
}

func runMain() error {
	args := procArgs()

	if !args.Timestamps {
		log.SetFlags(0) // Removes default timestamp flag
	}

	log.Printf("running version: %s", version)
	conf := defaultConfig
	if args.ConfigFile != "" {
		c, err := ParseConfigFile(args.ConfigFile)
		if err != nil {
			return err
		}
		conf = *c
	}
	applyArgs(&conf, args, log.Printf)

	input, reader, err := openInput(&conf)
	if err != nil {
		return err
	}
	if input != nil {
		defer input.Close()
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	logConfig(&conf)

	codec := newCodec(&conf)
	sink, err := openSink(&conf)
	if err != nil {
		return err
	}

	gen, err := generator.New(generator.Config{
		Width:       conf.Frame.Width,
		Height:      conf.Frame.Height,
		PixelFormat: conf.Frame.PixelFormat,
		BitWidth:    conf.Frame.BitWidth,
		LineHeight:  conf.Frame.LineHeight,
		Length:      conf.RunLength(),
		LinesOnly:   conf.LinesOnly(),
	}, codec, sink)
	if err != nil {
		sink.Close()
		return err
	}
	gen.SetSchedule(conf.Schedule(log.Printf))
	gen.SetNotifier(sdNotifier{})
	if reader != nil {
		gen.SetInput(reader)
	}
	if conf.Pacer.Realtime {
		gen.SetPacer(throttle.NewPacer(conf.FPS, conf.Pacer.Burst))
	}

	if conf.DBus {
		log.Println("starting d-bus service")
		if err := startService(gen); err != nil {
			sink.Close()
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		<-sigs
		cancel()
	}()

	start := time.Now()
	runErr := gen.Run(ctx)
	if runErr == context.Canceled {
		log.Print("stopped")
		runErr = nil
	}
	log.Printf("%d frames written, last timecode %s", gen.Written(), gen.Timecode())

	if conf.ReportEvents {
		reportRun(start, gen, runErr)
	}
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// applyArgs overrides conf with whatever was given on the command line.
// Values that can't be parsed are logged and the configured value kept.
func applyArgs(conf *Config, args Args, logf func(string, ...interface{})) {
	if args.Output != "" {
		conf.Output = args.Output
	}
	if args.Input != "" {
		conf.Input = args.Input
	}
	if args.PixelFormat != "" {
		if p, err := framebuffer.ParsePixelFormat(args.PixelFormat); err != nil {
			logf("%v", err)
		} else {
			conf.Frame.PixelFormat = p
		}
	}
	if args.Size != "" {
		if w, h, err := parseSize(args.Size); err != nil {
			logf("cannot parse frame size argument: %v", err)
		} else {
			conf.Frame.Width, conf.Frame.Height = w, h
		}
	}
	if args.FPS != "" {
		if rate, err := vitc.ParseFrameRate(args.FPS); err != nil {
			logf("unable to parse fps argument: %v", err)
		} else {
			conf.FPS = int(rate)
		}
	}
	if args.Timecode != "" {
		if _, err := vitc.ParseTimecode(args.Timecode); err != nil {
			logf("unable to parse starting timecode argument: %v", err)
		} else {
			conf.Timecode = args.Timecode
		}
	}
	if args.Length != "" {
		if _, err := vitc.ParseTimecode(args.Length); err != nil {
			logf("unable to parse length argument: %v", err)
		} else {
			conf.Length = args.Length
		}
	}
	if args.Frames != "" {
		if n, err := strconv.ParseInt(args.Frames, 10, 64); err != nil || n < 0 {
			logf("unable to parse frames argument %q", args.Frames)
		} else {
			conf.Frames = n
		}
	}
	if args.UserBits != "" {
		conf.UserBits = args.UserBits
	}
	for _, s := range args.Events {
		at, e, err := timeline.ParseEvent(s)
		if err != nil {
			logf("unable to parse event argument: %v", err)
			continue
		}
		conf.Events = append(conf.Events, EventConfig{
			At:   at.String(),
			Type: e.Type.String(),
			Data: e.Data,
		})
	}

	conf.Interlaced = conf.Interlaced || args.Interlaced
	conf.DropFrame = conf.DropFrame || args.DropFrame
	conf.InputHeader = conf.InputHeader || args.InputHeader
	conf.Pacer.Realtime = conf.Pacer.Realtime || args.Realtime
	conf.Compress = conf.Compress || args.Compress
	conf.DBus = conf.DBus || args.DBus
	conf.ReportEvents = conf.ReportEvents || args.ReportEvents

	switch {
	case args.Container && args.Raw:
		conf.OutputFormat = formatContainerLines
	case args.Container:
		conf.OutputFormat = formatContainer
	case args.Raw:
		conf.OutputFormat = formatLines
	}
}

func parseSize(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("invalid frame size %q", s)
	}
	return w, h, nil
}

// openInput opens the frames to embed in, if any. With an input header the
// frame settings in conf are replaced by those the header gives.
func openInput(conf *Config) (io.Closer, io.Reader, error) {
	if conf.Input == "" {
		return nil, nil, nil
	}

	var f *os.File
	if conf.Input == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(conf.Input)
		if err != nil {
			return nil, nil, err
		}
	}

	reader := bufio.NewReader(f)
	if conf.InputHeader {
		header, err := headers.ReadHeaderInfo(reader)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("reading input header: %v", err)
		}
		if err := header.Validate(); err != nil {
			f.Close()
			return nil, nil, err
		}
		applyHeader(conf, header)
	}
	return f, reader, nil
}

func applyHeader(conf *Config, header *headers.HeaderInfo) {
	format, _ := header.PixelFormat()
	conf.Frame.Width = header.ResX()
	conf.Frame.Height = header.ResY()
	conf.Frame.PixelFormat = format
	if header.FPS() > 0 {
		conf.FPS = header.FPS()
	}
	if conf.SourceName == "" {
		conf.SourceName = header.Source()
	}
}

func openSink(conf *Config) (output.Sink, error) {
	var w io.WriteCloser
	switch {
	case conf.Output == "-" && conf.Pacer.Realtime:
		// Unbuffered so frames go out as they are paced.
		w = output.NopCloser(os.Stdout)
	case conf.Output == "-":
		w = output.NewBufferedFile(os.Stdout)
	default:
		f, err := output.CreateBufferedFile(conf.Output)
		if err != nil {
			return nil, err
		}
		w = f
	}

	switch conf.OutputFormat {
	case formatLines:
		return output.NewLineWriter(w), nil
	case formatContainer, formatContainerLines:
		cw, err := output.NewContainerWriter(w, output.ContainerHeader{
			Time:        time.Now(),
			Source:      conf.SourceName,
			FPS:         conf.FPS,
			Width:       conf.Frame.Width,
			Height:      conf.Frame.Height,
			PixelFormat: uint8(conf.Frame.PixelFormat),
			Interlaced:  conf.Interlaced,
			DropFrame:   conf.DropFrame,
			Compress:    conf.Compress,
		})
		if err != nil {
			w.Close()
			return nil, err
		}
		return cw, nil
	}
	return output.NewStreamWriter(w), nil
}

func newCodec(conf *Config) *vitc.Codec {
	codec := vitc.New()
	codec.SetFPS(conf.FPS)
	codec.SetDropFrame(conf.DropFrame)
	codec.SetInterlaced(conf.Interlaced)
	if tc, err := vitc.ParseTimecode(conf.Timecode); err == nil {
		codec.SetTimecode(tc)
	}
	if conf.UserBits != "" {
		codec.SetUserBits(vitc.UserBitsFromString(conf.UserBits))
	}
	codec.SetColourFraming(conf.Flags.ColourFraming)
	codec.SetUserBitsFormat(conf.Flags.UserBitsFormat)
	codec.SetExternalClock(conf.Flags.ExternalClock)
	return codec
}

func logConfig(conf *Config) {
	mode := "generator"
	if conf.Input != "" {
		mode = "embedder"
	}
	log.Printf("mode: %s %dx%d %v", mode, conf.Frame.Width, conf.Frame.Height, conf.Frame.PixelFormat)
	if conf.Input != "" {
		log.Printf("input: %s", conf.Input)
	}
	log.Printf("output: %s (%s)", conf.Output, conf.OutputFormat)
	log.Printf("%dfps (%v) drop-frame=%t interlaced=%t", conf.FPS, vitc.FrameRate(conf.FPS), conf.DropFrame, conf.Interlaced)
	log.Printf("starting timecode: %s", conf.Timecode)
	if n := conf.RunLength(); n > 0 {
		log.Printf("run length: %d frames", n)
	}
	if conf.Frame.BitWidth > 0 {
		log.Printf("bit width: %d", conf.Frame.BitWidth)
	}
	log.Printf("pacer: %+v", conf.Pacer)
	if len(conf.Events) > 0 {
		log.Printf("events: %d", len(conf.Events))
	}
}
