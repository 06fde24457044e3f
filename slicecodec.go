package binrec

import (
	"reflect"
	"unsafe"
)

// newSliceWriter generates the encode routine for a slice field. The element
// routine is inlined per kind at construction so the loop body is monomorphic;
// iteration walks the slice memory directly with the element stride.
func newSliceWriter(t reflect.Type, elem Kind, sub *codecImpl) elemWriter {
	stride := t.Elem().Size()

	switch elem {
	case KindInt8:
		// 1-byte elements share the wire image with memory, copy the run whole
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			b.Bytes = append(b.Bytes, unsafe.Slice((*byte)(sl.Data), sl.Len)...)
		}

	case KindBool:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendBool(*(*bool)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindInt16:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendInt16(*(*int16)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindChar:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendChar(*(*uint16)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindInt32:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendInt32(*(*int32)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindInt64:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendInt64(*(*int64)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindFloat32:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendFloat32(*(*float32)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindFloat64:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendFloat64(*(*float64)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindString:
		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendString(*(*string)(unsafe.Add(sl.Data, i*stride)))
			}
		}

	case KindStruct:
		if t.Elem().Kind() == reflect.Pointer {
			return func(p unsafe.Pointer, b *Buffer) {
				sl := *(*sliceHeader)(p)
				if sl.Data == nil {
					b.AppendNull()
					return
				}
				b.AppendLength(sl.Len)
				for i := uintptr(0); i < uintptr(sl.Len); i++ {
					em := *(*unsafe.Pointer)(unsafe.Add(sl.Data, i*stride))
					if em == nil {
						b.AppendUint8(0)
						continue
					}
					b.AppendUint8(1)
					sub.marshal(em, b)
				}
			}
		}

		return func(p unsafe.Pointer, b *Buffer) {
			sl := *(*sliceHeader)(p)
			if sl.Data == nil {
				b.AppendNull()
				return
			}
			b.AppendLength(sl.Len)
			for i := uintptr(0); i < uintptr(sl.Len); i++ {
				b.AppendUint8(1)
				sub.marshal(unsafe.Add(sl.Data, i*stride), b)
			}
		}
	}

	panic("no slice writer for element kind " + elem.String())
}

// newSliceReader generates the decode routine for a slice field. The length
// prefix is validated against the limits and against the bytes actually
// remaining before any allocation happens.
func newSliceReader(t reflect.Type, elem Kind, sub *codecImpl, limits DecodeLimits) elemReader {
	stride := t.Elem().Size()
	maxLen := limits.MaxContainerLen

	// the smallest possible wire footprint of one element, used to reject
	// lengths the input cannot possibly satisfy
	minSize := minWire(elem)

	// alloc reserves the backing array and installs it in the field
	alloc := func(p unsafe.Pointer, n int) unsafe.Pointer {
		sli := reflect.MakeSlice(t, n, n)
		h := sliceHeader{Data: sli.UnsafePointer(), Len: n, Cap: n}
		*(*sliceHeader)(p) = h
		return h.Data
	}

	frame := func(p unsafe.Pointer, r *Reader) (int, bool) {
		n := r.ReadLength()
		if n == int(nullLength) {
			*(*sliceHeader)(p) = sliceHeader{}
			return 0, false
		}
		checkLimit(n, maxLen, "container")
		checkFits(n, minSize, r)
		return n, true
	}

	switch elem {
	case KindInt8:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			copy(unsafe.Slice((*byte)(data), n), r.Read(uint(n)))
			return r
		}

	case KindBool:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*bool)(unsafe.Add(data, i*stride)) = r.ReadBool()
			}
			return r
		}

	case KindInt16:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*int16)(unsafe.Add(data, i*stride)) = r.ReadInt16()
			}
			return r
		}

	case KindChar:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*uint16)(unsafe.Add(data, i*stride)) = r.ReadChar()
			}
			return r
		}

	case KindInt32:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*int32)(unsafe.Add(data, i*stride)) = r.ReadInt32()
			}
			return r
		}

	case KindInt64:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*int64)(unsafe.Add(data, i*stride)) = r.ReadInt64()
			}
			return r
		}

	case KindFloat32:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*float32)(unsafe.Add(data, i*stride)) = r.ReadFloat32()
			}
			return r
		}

	case KindFloat64:
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*float64)(unsafe.Add(data, i*stride)) = r.ReadFloat64()
			}
			return r
		}

	case KindString:
		max := limits.MaxStringLen
		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				*(*string)(unsafe.Add(data, i*stride)) = readStringLimited(&r, max)
			}
			return r
		}

	case KindStruct:
		if t.Elem().Kind() == reflect.Pointer {
			st := t.Elem().Elem()
			return func(p unsafe.Pointer, r Reader) Reader {
				n, ok := frame(p, &r)
				if !ok {
					return r
				}
				data := alloc(p, n)
				for i := uintptr(0); i < uintptr(n); i++ {
					if r.ReadByte() == 0 {
						continue // element stays nil
					}
					em := reflect.New(st).UnsafePointer()
					*(*unsafe.Pointer)(unsafe.Add(data, i*stride)) = em
					r = sub.unmarshal(em, r)
				}
				return r
			}
		}

		return func(p unsafe.Pointer, r Reader) Reader {
			n, ok := frame(p, &r)
			if !ok {
				return r
			}
			data := alloc(p, n)
			for i := uintptr(0); i < uintptr(n); i++ {
				if r.ReadByte() == 0 {
					continue // freshly allocated elements are already zero
				}
				r = sub.unmarshal(unsafe.Add(data, i*stride), r)
			}
			return r
		}
	}

	panic("no slice reader for element kind " + elem.String())
}

// checkFits rejects container lengths whose minimum wire footprint exceeds
// the bytes remaining, before any allocation is sized from them.
func checkFits(n, minSize int, r *Reader) {
	if n > 0 && uint64(n)*uint64(minSize) > uint64(r.BytesLeft()) {
		faultf(ErrTruncated, "%d elements need at least %d bytes, have %d", n, uint64(n)*uint64(minSize), r.BytesLeft())
	}
}
