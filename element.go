package binrec

import (
	"reflect"
	"unsafe"
)

// elemWriter appends one value read from p to the buffer.
type elemWriter func(p unsafe.Pointer, b *Buffer)

// elemReader decodes one value from r into p, returning the advanced reader.
type elemReader func(p unsafe.Pointer, r Reader) Reader

// elementWriter returns the monomorphic write routine for an element kind.
// The routine is resolved here exactly once; container generators capture it
// so their loops carry no kind dispatch. sub is required for KindStruct.
func elementWriter(k Kind, sub *codecImpl) elemWriter {
	switch k {
	case KindBool:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendBool(*(*bool)(p))
		}
	case KindInt8:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendUint8(*(*uint8)(p))
		}
	case KindInt16:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendInt16(*(*int16)(p))
		}
	case KindInt32:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendInt32(*(*int32)(p))
		}
	case KindInt64:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendInt64(*(*int64)(p))
		}
	case KindFloat32:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendFloat32(*(*float32)(p))
		}
	case KindFloat64:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendFloat64(*(*float64)(p))
		}
	case KindChar:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendChar(*(*uint16)(p))
		}
	case KindString:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendString(*(*string)(p))
		}
	case KindStruct:
		return func(p unsafe.Pointer, b *Buffer) {
			b.AppendUint8(1)
			sub.marshal(p, b)
		}
	}
	panic("no element writer for kind " + k.String())
}

// elementReader returns the monomorphic read routine for an element kind.
// t is the element's Go type, needed to clear struct elements behind a null
// marker when the target may hold stale data.
func elementReader(k Kind, t reflect.Type, sub *codecImpl, limits DecodeLimits) elemReader {
	switch k {
	case KindBool:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*bool)(p) = r.ReadBool()
			return r
		}
	case KindInt8:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*uint8)(p) = r.ReadByte()
			return r
		}
	case KindInt16:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*int16)(p) = r.ReadInt16()
			return r
		}
	case KindInt32:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*int32)(p) = r.ReadInt32()
			return r
		}
	case KindInt64:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*int64)(p) = r.ReadInt64()
			return r
		}
	case KindFloat32:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*float32)(p) = r.ReadFloat32()
			return r
		}
	case KindFloat64:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*float64)(p) = r.ReadFloat64()
			return r
		}
	case KindChar:
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*uint16)(p) = r.ReadChar()
			return r
		}
	case KindString:
		max := limits.MaxStringLen
		return func(p unsafe.Pointer, r Reader) Reader {
			*(*string)(p) = readStringLimited(&r, max)
			return r
		}
	case KindStruct:
		return func(p unsafe.Pointer, r Reader) Reader {
			if r.ReadByte() == 0 {
				reflect.NewAt(t, p).Elem().SetZero()
				return r
			}
			return sub.unmarshal(p, r)
		}
	}
	panic("no element reader for kind " + k.String())
}

// readStringLimited reads a length-prefixed string, enforcing the string
// length limit. The null sentinel decodes to "".
func readStringLimited(r *Reader, max int) string {
	l := r.ReadLength()
	checkLimit(l, max, "string")
	if l <= 0 {
		return ""
	}
	b := r.Read(uint(l))
	return *(*string)(unsafe.Pointer(&b))
}

// structPtrWriter wraps a nested codec for a pointer field or element. A
// leading byte indicates presence: 1 for value present, 0 for nil.
func structPtrWriter(sub *codecImpl) elemWriter {
	return func(p unsafe.Pointer, b *Buffer) {
		pp := *(*unsafe.Pointer)(p)
		if pp == nil {
			b.AppendUint8(0)
			return
		}
		b.AppendUint8(1)
		sub.marshal(pp, b)
	}
}

// structPtrReader is the inverse of structPtrWriter. st is the pointee struct
// type; an existing allocation on the target is reused.
func structPtrReader(sub *codecImpl, st reflect.Type) elemReader {
	return func(p unsafe.Pointer, r Reader) Reader {
		if r.ReadByte() == 0 {
			*(*unsafe.Pointer)(p) = nil
			return r
		}
		if *(*unsafe.Pointer)(p) == nil {
			*(*unsafe.Pointer)(p) = reflect.New(st).UnsafePointer()
		}
		return sub.unmarshal(*(*unsafe.Pointer)(p), r)
	}
}

// stringPtrWriter encodes a nullable string field: nil writes the -1 length
// sentinel, everything else is the plain string form.
func stringPtrWriter() elemWriter {
	return func(p unsafe.Pointer, b *Buffer) {
		pp := *(*unsafe.Pointer)(p)
		if pp == nil {
			b.AppendNull()
			return
		}
		b.AppendString(*(*string)(pp))
	}
}

// stringPtrReader is the inverse of stringPtrWriter.
func stringPtrReader(limits DecodeLimits) elemReader {
	max := limits.MaxStringLen
	return func(p unsafe.Pointer, r Reader) Reader {
		l := r.ReadLength()
		if l == int(nullLength) {
			*(**string)(p) = nil
			return r
		}
		checkLimit(l, max, "string")
		b := r.Read(uint(l))
		s := *(*string)(unsafe.Pointer(&b))

		if existing := *(**string)(p); existing != nil {
			*existing = s
		} else {
			*(**string)(p) = &s
		}
		return r
	}
}
