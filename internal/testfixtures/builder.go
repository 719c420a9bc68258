// Package testfixtures provides small byte-buffer builders for engine
// tests, playing the role the teacher's internal/testing.MockReaderAt
// plays for HDF5 tests: a hand-rolled wire buffer a test can assert
// against without going through the codec it is testing.
package testfixtures

import "encoding/binary"

// Builder accumulates raw bytes field by field. Each method appends and
// returns the Builder so calls can be chained.
type Builder struct {
	buf []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// U8 appends a single byte.
func (b *Builder) U8(v byte) *Builder {
	b.buf = append(b.buf, v)
	return b
}

// U16BE appends a big-endian uint16.
func (b *Builder) U16BE(v uint16) *Builder {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// U16LE appends a little-endian uint16.
func (b *Builder) U16LE(v uint16) *Builder {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// U32BE appends a big-endian uint32.
func (b *Builder) U32BE(v uint32) *Builder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

// Bytes appends raw bytes verbatim.
func (b *Builder) Bytes(raw ...byte) *Builder {
	b.buf = append(b.buf, raw...)
	return b
}

// Repeat appends v, n times.
func (b *Builder) Repeat(v byte, n int) *Builder {
	for i := 0; i < n; i++ {
		b.buf = append(b.buf, v)
	}
	return b
}

// Build returns the accumulated buffer.
func (b *Builder) Build() []byte {
	return b.buf
}
