package binrec

import (
	"encoding/binary"
	"math"
	"sync"
)

// nullLength is the length sentinel written for null strings and containers.
const nullLength = int32(-1)

// Buffer accumulates encoded data during serialization. Supports only append
// operations for efficiency. All multi-byte values are little-endian.
type Buffer struct {
	Bytes []byte
}

// Reset clears the buffer contents but preserves allocated memory
func (b *Buffer) Reset() {
	b.Bytes = b.Bytes[:0]
}

// Len returns the number of bytes written so far.
func (b *Buffer) Len() int {
	return len(b.Bytes)
}

// Cap returns the current capacity of the backing storage.
func (b *Buffer) Cap() int {
	return cap(b.Bytes)
}

// Finish copies out the exact-length byte run written so far and resets the
// buffer for reuse.
func (b *Buffer) Finish() []byte {
	out := make([]byte, len(b.Bytes))
	copy(out, b.Bytes)
	b.Reset()
	return out
}

var bufpool = sync.Pool{
	New: func() any { return &Buffer{} },
}

// NewBufferFromPool obtains a reset Buffer from the pool. Call ReturnToPool
// when finished. For existing memory, create directly: `buf := Buffer{mySlice[:0]}`
// - pooling is optional.
func NewBufferFromPool() *Buffer {
	b := bufpool.Get().(*Buffer)
	b.Reset()
	return b
}

// NewBufferFromPoolWithCap acquires a pooled Buffer with guaranteed capacity.
// Call ReturnToPool after use.
func NewBufferFromPoolWithCap(size int) *Buffer {
	b := bufpool.Get().(*Buffer)

	if c := cap(b.Bytes); c < size {
		b.Bytes = make([]byte, 0, size)
	} else if c > 0 {
		b.Reset()
	}

	return b
}

// ReturnToPool releases the buffer back to the pool. Using the buffer after
// this call results in undefined behavior.
func (b *Buffer) ReturnToPool() {
	bufpool.Put(b)
}

// AppendUint8 adds a single byte to the buffer.
func (b *Buffer) AppendUint8(value uint8) {
	b.Bytes = append(b.Bytes, value)
}

// AppendInt8 adds a signed byte to the buffer.
func (b *Buffer) AppendInt8(value int8) {
	b.Bytes = append(b.Bytes, byte(value))
}

// AppendInt16 encodes an int16 as 2 bytes little-endian.
func (b *Buffer) AppendInt16(value int16) {
	b.Bytes = binary.LittleEndian.AppendUint16(b.Bytes, uint16(value))
}

// AppendInt32 encodes an int32 as 4 bytes little-endian.
func (b *Buffer) AppendInt32(value int32) {
	b.Bytes = binary.LittleEndian.AppendUint32(b.Bytes, uint32(value))
}

// AppendInt64 encodes an int64 as 8 bytes little-endian.
func (b *Buffer) AppendInt64(value int64) {
	b.Bytes = binary.LittleEndian.AppendUint64(b.Bytes, uint64(value))
}

// AppendChar encodes a single UTF-16 code unit as 2 bytes little-endian.
func (b *Buffer) AppendChar(value uint16) {
	b.Bytes = binary.LittleEndian.AppendUint16(b.Bytes, value)
}

// AppendFloat32 encodes a float32 as its IEEE-754 bits, little-endian.
func (b *Buffer) AppendFloat32(value float32) {
	b.Bytes = binary.LittleEndian.AppendUint32(b.Bytes, math.Float32bits(value))
}

// AppendFloat64 encodes a float64 as its IEEE-754 bits, little-endian.
func (b *Buffer) AppendFloat64(value float64) {
	b.Bytes = binary.LittleEndian.AppendUint64(b.Bytes, math.Float64bits(value))
}

// AppendBool encodes a boolean as a single byte: 1 for true, 0 for false.
func (b *Buffer) AppendBool(value bool) {
	if value {
		b.Bytes = append(b.Bytes, 1)
	} else {
		b.Bytes = append(b.Bytes, 0)
	}
}

// AppendLength encodes a length prefix as a signed 4-byte little-endian value.
func (b *Buffer) AppendLength(n int) {
	b.Bytes = binary.LittleEndian.AppendUint32(b.Bytes, uint32(int32(n)))
}

// AppendNull writes the -1 length sentinel used for null strings and
// containers.
func (b *Buffer) AppendNull() {
	v := nullLength
	b.Bytes = binary.LittleEndian.AppendUint32(b.Bytes, uint32(v))
}

// AppendString encodes a string with its byte-count prefix into the buffer.
func (b *Buffer) AppendString(value string) {
	b.AppendLength(len(value))
	b.Bytes = append(b.Bytes, value...)
}

// AppendBytes appends a raw byte run with no framing.
func (b *Buffer) AppendBytes(value []byte) {
	b.Bytes = append(b.Bytes, value...)
}
