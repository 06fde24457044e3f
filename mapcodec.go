package binrec

import (
	"reflect"
	"unsafe"
)

// newMapWriter generates the encode routine for a map field. Entries are
// written in iteration order as key then value; the element routines are
// resolved once here. The common string-keyed shapes get direct
// type-asserted loops; everything else goes through reflect iteration with
// reused addressable temps.
func newMapWriter(t reflect.Type, key, val Kind, keySub, valSub *codecImpl) elemWriter {
	switch {
	case t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.String:
		return func(p unsafe.Pointer, b *Buffer) {
			if *(*unsafe.Pointer)(p) == nil {
				b.AppendNull()
				return
			}
			m := *(*map[string]string)(p)
			b.AppendLength(len(m))
			for k, v := range m {
				b.AppendString(k)
				b.AppendString(v)
			}
		}

	case t.Key().Kind() == reflect.String && t.Elem().Kind() == reflect.Int32:
		return func(p unsafe.Pointer, b *Buffer) {
			if *(*unsafe.Pointer)(p) == nil {
				b.AppendNull()
				return
			}
			m := *(*map[string]int32)(p)
			b.AppendLength(len(m))
			for k, v := range m {
				b.AppendString(k)
				b.AppendInt32(v)
			}
		}
	}

	kw := elementWriter(key, keySub)
	vw := valueWriter(t.Elem(), val, valSub)

	return func(p unsafe.Pointer, b *Buffer) {
		if *(*unsafe.Pointer)(p) == nil {
			b.AppendNull()
			return
		}

		m := reflect.NewAt(t, p).Elem()
		b.AppendLength(m.Len())

		kTmp := reflect.New(t.Key())
		vTmp := reflect.New(t.Elem())
		kp, vp := kTmp.UnsafePointer(), vTmp.UnsafePointer()
		kv, vv := kTmp.Elem(), vTmp.Elem()

		iter := m.MapRange()
		for iter.Next() {
			kv.SetIterKey(iter)
			vv.SetIterValue(iter)
			kw(kp, b)
			vw(vp, b)
		}
	}
}

// newMapReader generates the decode routine for a map field. The entry count
// is validated before the map is sized from it; entries are read into reused
// temps and inserted one pair at a time.
func newMapReader(t reflect.Type, key, val Kind, keySub, valSub *codecImpl, limits DecodeLimits) elemReader {
	kr := elementReader(key, t.Key(), keySub, limits)
	vr := valueReader(t.Elem(), val, valSub, limits)

	maxLen := limits.MaxContainerLen
	minEntry := minWire(key) + minWire(val)

	// struct-typed temps can carry pointers into the previous entry, which
	// SetMapIndex would have copied; those must start each entry clean
	zeroKey := key == KindStruct
	zeroVal := val == KindStruct

	return func(p unsafe.Pointer, r Reader) Reader {
		n := r.ReadLength()
		if n == int(nullLength) {
			*(*unsafe.Pointer)(p) = nil
			return r
		}
		checkLimit(n, maxLen, "map")
		checkFits(n, minEntry, &r)

		m := reflect.MakeMapWithSize(t, n)
		reflect.NewAt(t, p).Elem().Set(m)

		kTmp := reflect.New(t.Key())
		vTmp := reflect.New(t.Elem())
		kp, vp := kTmp.UnsafePointer(), vTmp.UnsafePointer()
		kv, vv := kTmp.Elem(), vTmp.Elem()

		for i := 0; i < n; i++ {
			if zeroKey {
				kv.SetZero()
			}
			if zeroVal {
				vv.SetZero()
			}
			r = kr(kp, r)
			r = vr(vp, r)
			m.SetMapIndex(kv, vv)
		}

		return r
	}
}

// valueWriter picks the element routine for a map value, which may sit behind
// a pointer.
func valueWriter(vt reflect.Type, val Kind, valSub *codecImpl) elemWriter {
	if val == KindStruct && vt.Kind() == reflect.Pointer {
		return structPtrWriter(valSub)
	}
	return elementWriter(val, valSub)
}

// valueReader is the inverse of valueWriter.
func valueReader(vt reflect.Type, val Kind, valSub *codecImpl, limits DecodeLimits) elemReader {
	if val == KindStruct && vt.Kind() == reflect.Pointer {
		return structPtrReader(valSub, vt.Elem())
	}
	return elementReader(val, vt, valSub, limits)
}

// minWire is the smallest wire footprint of one element of the given kind.
func minWire(k Kind) int {
	switch k {
	case KindString:
		return 4
	case KindStruct:
		return 1
	}
	return k.size()
}
