package binary

import (
	"bytes"
	"encoding/binary"
)

// Writer provides buffered writing utilities for container encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{buf: &bytes.Buffer{}}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// Pad writes fill bytes until the length is a multiple of align.
func (w *Writer) Pad(align int, fill byte) {
	for w.buf.Len()%align != 0 {
		w.buf.WriteByte(fill)
	}
}

// Padded returns data extended with fill bytes to a multiple of align.
// The input slice is never mutated.
func Padded(data []byte, align int, fill byte) []byte {
	rem := len(data) % align
	if rem == 0 {
		return data
	}
	out := make([]byte, len(data), len(data)+align-rem)
	copy(out, data)
	for len(out)%align != 0 {
		out = append(out, fill)
	}
	return out
}
