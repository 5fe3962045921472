package output

import (
	"bufio"
	"os"
)

const bufferedFileSize = 4 * 1024 * 1024

// CreateBufferedFile creates filename for writing through a large buffer.
// Close flushes the buffer before closing the file.
func CreateBufferedFile(filename string) (*BufferedFile, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return NewBufferedFile(f), nil
}

func NewBufferedFile(f *os.File) *BufferedFile {
	return &BufferedFile{
		f: f,
		w: bufio.NewWriterSize(f, bufferedFileSize),
	}
}

type BufferedFile struct {
	f *os.File
	w *bufio.Writer
}

func (bf *BufferedFile) Name() string {
	return bf.f.Name()
}

func (bf *BufferedFile) Write(p []byte) (int, error) {
	return bf.w.Write(p)
}

// Flush pushes buffered data out to the file without closing it.
func (bf *BufferedFile) Flush() error {
	return bf.w.Flush()
}

func (bf *BufferedFile) Close() error {
	if err := bf.w.Flush(); err != nil {
		return err
	}
	return bf.f.Close()
}
