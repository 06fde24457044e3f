package binrec

import (
	"fmt"
	"reflect"
	"unsafe"
)

// DecodeLimits configures bounds checking during decoding to prevent memory
// exhaustion from hostile length prefixes. A zero limit means unlimited.
type DecodeLimits struct {
	MaxContainerLen int // maximum list, array and map length
	MaxStringLen    int // maximum string length in bytes
}

// DefaultLimits provides sensible defaults for most use cases
var DefaultLimits = DecodeLimits{
	MaxContainerLen: 1 << 24,        // 16M elements
	MaxStringLen:    50 * 1024 * 1024, // 50MB string max
}

// checkLimit validates a length against a limit, with 0 meaning unlimited
func checkLimit(n, limit int, name string) {
	if limit > 0 && n > limit {
		faultf(ErrInvalidLength, "%s length %d exceeds limit %d", name, n, limit)
	}
}

// Codec handles type-safe encoding and decoding of record type T.
//
// Create only ONE codec per type - the codec is immutable after construction
// and safe for concurrent use. All field analysis and routine binding happens
// in NewCodec; Marshal and Unmarshal only execute the pre-bound routines.
type Codec[T any] struct {
	impl *codecImpl
}

// NewCodec builds a codec for record type T with default decode limits.
// Fields are laid out on the wire in declaration order; unexported fields and
// fields tagged `binrec:"-"` are excluded. Construction fails with
// ErrUnsupportedElement or ErrCyclicType when the type cannot be analysed.
func NewCodec[T any]() (*Codec[T], error) {
	return NewCodecWithLimits[T](DefaultLimits)
}

// NewCodecWithLimits builds a codec with custom bounds checking limits.
func NewCodecWithLimits[T any](limits DecodeLimits) (*Codec[T], error) {
	tt := reflect.TypeOf((*T)(nil)).Elem()
	if tt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: record type %s is not a struct", ErrUnsupportedElement, tt)
	}

	impl, err := newCodecImpl(tt, limits, make(map[reflect.Type]bool))
	if err != nil {
		return nil, err
	}
	return &Codec[T]{impl: impl}, nil
}

// Marshal encodes a value of type T into the supplied buffer. A nil record
// writes the single null-record byte. This is the zero-allocation path; pair
// it with NewBufferFromPool and ReturnToPool.
func (c *Codec[T]) Marshal(v *T, b *Buffer) {
	if v == nil {
		b.AppendUint8(0)
		return
	}
	b.AppendUint8(1)
	c.impl.marshal(unsafe.Pointer(v), b)
}

// Encode returns the complete encoding of v. A nil record encodes as the
// single byte 0x00. The scratch buffer is pooled and released on return.
func (c *Codec[T]) Encode(v *T) []byte {
	b := NewBufferFromPool()
	defer b.ReturnToPool()

	c.Marshal(v, b)
	return b.Finish()
}

// Unmarshal populates v with data from bytes. An empty or null-record input
// resets v to the zero value. Failures are one of ErrTruncated,
// ErrInvalidLength or ErrConstructionFailed.
func (c *Codec[T]) Unmarshal(bytes []byte, v *T) (err error) {
	if v == nil {
		return fmt.Errorf("%w: nil destination", ErrConstructionFailed)
	}

	defer recoverFault(&err)

	if len(bytes) == 0 || bytes[0] == 0 {
		var zero T
		*v = zero
		return nil
	}

	r := NewReader(bytes)
	r.Skip(1) // presence byte
	c.impl.unmarshal(unsafe.Pointer(v), r)
	return nil
}

// Decode reconstructs a record from bytes. An empty input or the null-record
// sentinel yields nil.
func (c *Codec[T]) Decode(bytes []byte) (*T, error) {
	if len(bytes) == 0 || bytes[0] == 0 {
		return nil, nil
	}

	v := new(T)
	if err := c.Unmarshal(bytes, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Sprint renders the wire image as an indented tree using the codec's field
// table, for tooling and debugging.
func (c *Codec[T]) Sprint(bytes []byte) (string, error) {
	return sprintDocument(c.impl, bytes)
}

// codecImpl holds the compiled field table - always construct via newCodecImpl.
// It is the per-type object shared by the top-level codec and every container
// routine that nests it.
type codecImpl struct {
	typ    reflect.Type
	fields []fieldDesc
	limits DecodeLimits
}

// marshal writes the field sequence of the record at p. The record's own
// presence byte belongs to the caller. Constant cases are required for the
// compiler's jump table optimization; everything without a fast path runs its
// bound routine.
func (c *codecImpl) marshal(p unsafe.Pointer, b *Buffer) {
	for i := 0; i < len(c.fields); i++ {
		f := &c.fields[i]
		fp := unsafe.Add(p, f.offset)

		switch f.kind {
		case KindBool:
			b.AppendBool(*(*bool)(fp))
		case KindInt8:
			b.AppendUint8(*(*uint8)(fp))
		case KindInt16:
			b.AppendInt16(*(*int16)(fp))
		case KindInt32:
			b.AppendInt32(*(*int32)(fp))
		case KindInt64:
			b.AppendInt64(*(*int64)(fp))
		case KindFloat32:
			b.AppendFloat32(*(*float32)(fp))
		case KindFloat64:
			b.AppendFloat64(*(*float64)(fp))
		case KindChar:
			b.AppendChar(*(*uint16)(fp))
		case KindString:
			b.AppendString(*(*string)(fp))
		case KindStruct:
			b.AppendUint8(1)
			f.sub.marshal(fp, b)
		default:
			f.write(fp, b)
		}
	}
}

// unmarshal executes the bound read routines to populate the record at p,
// mirroring marshal case for case.
func (c *codecImpl) unmarshal(p unsafe.Pointer, r Reader) Reader {
	for i := 0; i < len(c.fields); i++ {
		f := &c.fields[i]
		fp := unsafe.Add(p, f.offset)

		switch f.kind {
		case KindBool:
			*(*bool)(fp) = r.ReadBool()
		case KindInt8:
			*(*uint8)(fp) = r.ReadByte()
		case KindInt16:
			*(*int16)(fp) = r.ReadInt16()
		case KindInt32:
			*(*int32)(fp) = r.ReadInt32()
		case KindInt64:
			*(*int64)(fp) = r.ReadInt64()
		case KindFloat32:
			*(*float32)(fp) = r.ReadFloat32()
		case KindFloat64:
			*(*float64)(fp) = r.ReadFloat64()
		case KindChar:
			*(*uint16)(fp) = r.ReadChar()
		case KindString:
			*(*string)(fp) = readStringLimited(&r, c.limits.MaxStringLen)
		case KindStruct:
			if r.ReadByte() == 0 {
				reflect.NewAt(f.typ, fp).Elem().SetZero()
				continue
			}
			r = f.sub.unmarshal(fp, r)
		default:
			r = f.read(fp, r)
		}
	}

	return r
}
