package output

import (
	"bytes"
	"io"

	"github.com/TheCacophonyProject/vitc-generator/vitc"
)

// PackBits packs the low width bits of each input value, most significant
// bit first, padding the final byte with zeros.
func PackBits(width uint8, input []uint32, w io.ByteWriter) {
	var bits uint32 // scratch buffer
	var nBits uint8 // number of bits in use in scratch
	mask := uint32(1)<<width - 1
	for _, v := range input {
		bits |= (v & mask) << (32 - width - nBits)
		nBits += width
		for nBits >= 8 {
			w.WriteByte(uint8(bits >> 24))
			bits <<= 8
			nBits -= 8
		}
	}
	if nBits > 0 {
		w.WriteByte(uint8(bits >> 24))
	}
}

// PackedLineSize is the number of bytes taken by a line packed at one bit
// per line bit.
const PackedLineSize = (vitc.LineBits + 7) / 8

// PackLines packs lines at one bit per line bit, bit 0 of each line in the
// most significant bit of its first byte.
func PackLines(lines []vitc.Line) []byte {
	out := new(bytes.Buffer)
	out.Grow(len(lines) * PackedLineSize)
	values := make([]uint32, vitc.LineBits)
	for _, line := range lines {
		for i, b := range line {
			values[i] = 0
			if b {
				values[i] = 1
			}
		}
		PackBits(1, values, out)
	}
	return out.Bytes()
}
