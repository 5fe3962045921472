package output

import (
	"compress/gzip"
	"io"
	"time"

	cptv "github.com/TheCacophonyProject/go-cptv"
)

const (
	containerMagic        = "VITC"
	containerVersion byte = 0x01

	headerSection = 'H'
	frameSection  = 'F'

	// Header fields beyond the standard CPTV ones.
	PixelFormatField byte = 'p'
	InterlacedField  byte = 'i'
	DropFrameField   byte = 'd'

	// Frame fields beyond the standard CPTV ones.
	FrameCountField byte = 'n'
	TimecodeField   byte = 'k'
	UserBitsField   byte = 'u'
	LineCountField  byte = 'l'
)

// ContainerHeader describes the stream written by a ContainerWriter.
type ContainerHeader struct {
	Time        time.Time
	Source      string
	FPS         int
	Width       int
	Height      int
	PixelFormat uint8
	Interlaced  bool
	DropFrame   bool
	Compress    bool
}

// ContainerWriter writes frames in a sectioned container: a header
// section followed by one section per frame, each made of CPTV encoded
// fields. Frames carry their rendered pixels, or their lines packed one
// bit per line bit when nothing was rendered.
type ContainerWriter struct {
	w     io.WriteCloser
	gz    *gzip.Writer
	dataW io.Writer
}

func NewContainerWriter(w io.WriteCloser, h ContainerHeader) (*ContainerWriter, error) {
	c := &ContainerWriter{w: w, dataW: w}
	if h.Compress {
		c.gz = gzip.NewWriter(w)
		c.dataW = c.gz
	}

	fields := cptv.NewFieldWriter()
	fields.Timestamp(cptv.Timestamp, h.Time)
	fields.Uint8(cptv.FPS, uint8(h.FPS))
	fields.Uint32(cptv.XResolution, uint32(h.Width))
	fields.Uint32(cptv.YResolution, uint32(h.Height))
	fields.Uint8(cptv.Compression, boolByte(h.Compress))
	fields.Uint8(PixelFormatField, h.PixelFormat)
	fields.Uint8(InterlacedField, boolByte(h.Interlaced))
	fields.Uint8(DropFrameField, boolByte(h.DropFrame))
	if h.Source != "" {
		if err := fields.String(cptv.DeviceName, h.Source); err != nil {
			return nil, err
		}
	}
	if err := c.writeHeader(fields); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *ContainerWriter) writeHeader(f *cptv.FieldWriter) error {
	fieldData, numFields := f.Bytes()
	_, err := c.dataW.Write(append(
		[]byte(containerMagic),
		containerVersion,
		headerSection,
		byte(numFields),
	))
	if err != nil {
		return err
	}

	_, err = c.dataW.Write(fieldData)
	return err
}

func (c *ContainerWriter) WriteFrame(f *Frame) error {
	data := f.Pixels
	if data == nil {
		data = PackLines(f.Fields)
	}

	fields := cptv.NewFieldWriter()
	fields.Uint64(FrameCountField, uint64(f.FrameCount))
	fields.Uint32(TimecodeField, packTimecode(f))
	fields.Uint32(UserBitsField, f.UserBits.Uint32())
	fields.Uint8(LineCountField, uint8(len(f.Fields)))
	fields.Uint32(cptv.FrameSize, uint32(len(data)))

	// Frame header
	fieldData, numFields := fields.Bytes()
	_, err := c.dataW.Write([]byte{frameSection, byte(numFields)})
	if err != nil {
		return err
	}

	// Frame fields
	_, err = c.dataW.Write(fieldData)
	if err != nil {
		return err
	}

	// Frame data
	_, err = c.dataW.Write(data)
	return err
}

func (c *ContainerWriter) Close() error {
	if c.gz != nil {
		if err := c.gz.Close(); err != nil {
			return err
		}
	}
	return c.w.Close()
}

// packTimecode puts hours, minutes, seconds and frames in successive bytes
// from the most significant down.
func packTimecode(f *Frame) uint32 {
	tc := f.Timecode
	return uint32(tc.Hour&0xff)<<24 |
		uint32(tc.Minute&0xff)<<16 |
		uint32(tc.Second&0xff)<<8 |
		uint32(tc.Frame&0xff)
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
