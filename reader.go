package binrec

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// Reader provides sequential access to encoded data with position tracking.
// It is a non-owning view over the input bytes and never copies them. Reads
// past the end raise ErrTruncated through the decode fault mechanism.
//
// Reader traverses the document using value semantics (not pointers) to
// ensure stack allocation. Function pointers prevent escape analysis from
// proving pointer safety, so instruction functions pass and return it by
// value, similar to append.
type Reader struct {
	position uint // current read position (first for alignment)
	bytes    []byte
}

func NewReader(b []byte) Reader {
	return Reader{bytes: b}
}

// ReadByte extracts the next byte
func (r *Reader) ReadByte() byte {
	if r.position >= uint(len(r.bytes)) {
		faultf(ErrTruncated, "need 1 byte at offset %d, have none", r.position)
	}
	p := r.position
	r.advance(1)
	return r.bytes[p]
}

// Read extracts the specified number of bytes as a view over the input.
func (r *Reader) Read(l uint) []byte {
	if r.position+l > uint(len(r.bytes)) || r.position+l < r.position {
		faultf(ErrTruncated, "need %d bytes at offset %d, have %d", l, r.position, r.BytesLeft())
	}

	p := r.position
	r.advance(l)
	return r.bytes[p : p+l]
}

// ReadBool interprets a byte as boolean. Any non-zero value decodes as true.
func (r *Reader) ReadBool() bool {
	return r.ReadByte() != 0
}

// ReadInt8 extracts a signed byte
func (r *Reader) ReadInt8() int8 {
	return int8(r.ReadByte())
}

// ReadUint8 extracts a single byte
func (r *Reader) ReadUint8() uint8 {
	return r.ReadByte()
}

// ReadInt16 decodes 2 bytes little-endian
func (r *Reader) ReadInt16() int16 {
	return int16(binary.LittleEndian.Uint16(r.Read(2)))
}

// ReadInt32 decodes 4 bytes little-endian
func (r *Reader) ReadInt32() int32 {
	return int32(binary.LittleEndian.Uint32(r.Read(4)))
}

// ReadInt64 decodes 8 bytes little-endian
func (r *Reader) ReadInt64() int64 {
	return int64(binary.LittleEndian.Uint64(r.Read(8)))
}

// ReadChar decodes one UTF-16 code unit, 2 bytes little-endian
func (r *Reader) ReadChar() uint16 {
	return binary.LittleEndian.Uint16(r.Read(2))
}

// ReadFloat32 decodes a float32 from its IEEE-754 bit representation
func (r *Reader) ReadFloat32() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(r.Read(4)))
}

// ReadFloat64 decodes a float64 from its IEEE-754 bit representation
func (r *Reader) ReadFloat64() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(r.Read(8)))
}

// ReadLength decodes a signed 4-byte length prefix. Values below -1 raise
// ErrInvalidLength; -1 is the null sentinel.
func (r *Reader) ReadLength() int {
	n := r.ReadInt32()
	if n < nullLength {
		faultf(ErrInvalidLength, "length %d at offset %d", n, r.position-4)
	}
	return int(n)
}

// ReadString decodes a length-prefixed string. The null sentinel decodes to
// the empty string. The result aliases the input bytes.
func (r *Reader) ReadString() string {
	l := r.ReadLength()
	if l <= 0 {
		return ""
	}

	b := r.Read(uint(l))
	return *(*string)(unsafe.Pointer(&b))
}

// Skip moves forward without extracting data
func (r *Reader) Skip(l uint) {
	if r.position+l > uint(len(r.bytes)) {
		faultf(ErrTruncated, "cannot skip %d bytes at offset %d", l, r.position)
	}
	r.advance(l)
}

func (r *Reader) advance(a uint) {
	r.position += a
}

// BytesLeft calculates remaining unread bytes
func (r *Reader) BytesLeft() uint {
	return uint(len(r.bytes)) - r.position
}

// Remaining provides all unread data as a slice
func (r *Reader) Remaining() []byte {
	return r.bytes[r.position:]
}
