package output

import (
	"io"

	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

// Frame is one output frame handed from the frame loop to a Sink.
type Frame struct {
	// Number counts frames from the start of the run.
	Number     int64
	FrameCount int64
	Timecode   vitc.Timecode
	UserBits   vitc.UserBits
	// Fields holds the line generated for each field of the frame.
	Fields []vitc.Line
	// Pixels is the rendered frame, nil when only lines are produced.
	Pixels []byte
}

// Sink consumes generated frames.
type Sink interface {
	WriteFrame(*Frame) error
	Close() error
}

// NewStreamWriter returns a Sink that writes the rendered pixels of each
// frame back to back.
func NewStreamWriter(w io.WriteCloser) *StreamWriter {
	return &StreamWriter{w: w}
}

type StreamWriter struct {
	w io.WriteCloser
}

func (s *StreamWriter) WriteFrame(f *Frame) error {
	_, err := s.w.Write(f.Pixels)
	return err
}

func (s *StreamWriter) Close() error {
	return s.w.Close()
}

// NewLineWriter returns a Sink that writes each field's line as 90 bytes,
// 0xff for a set bit and 0x00 for a clear one.
func NewLineWriter(w io.WriteCloser) *LineWriter {
	return &LineWriter{
		w:   w,
		buf: make([]byte, vitc.LineBits),
	}
}

type LineWriter struct {
	w   io.WriteCloser
	buf []byte
}

func (s *LineWriter) WriteFrame(f *Frame) error {
	for _, line := range f.Fields {
		line.PutBytes(s.buf)
		if _, err := s.w.Write(s.buf); err != nil {
			return err
		}
	}
	return nil
}

func (s *LineWriter) Close() error {
	return s.w.Close()
}

// NopCloser stops Close reaching an io.Writer that shouldn't be closed,
// such as stdout.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
