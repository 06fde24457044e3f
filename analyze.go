package binrec

import (
	"fmt"
	"reflect"
)

// fieldDesc is one entry of a codec's field table: the field's identity, its
// wire category, and the read and write routines bound at construction. The
// routine at index i of the write side is the exact inverse of the routine at
// index i of the read side. The table is immutable once built.
type fieldDesc struct {
	offset uintptr      // field location in the struct
	kind   Kind         // wire category, kindPtrFlag marks nullable fields
	write  elemWriter   // bound write routine; nil when the marshal fast path covers it
	read   elemReader   // bound read routine; nil when the unmarshal fast path covers it
	sub    *codecImpl   // nested record codec for struct fields, elements and map values
	keySub *codecImpl   // nested record codec for struct map keys
	typ    reflect.Type // declared field type
	name   string       // for diagnostics only, never on the wire
	elem   Kind         // element kind for List and Array fields
	key    Kind         // key kind for Map fields
	val    Kind         // value kind for Map fields
}

// newCodecImpl analyses a record type and compiles its field table. active
// tracks record types currently under construction so type-graph cycles fail
// here rather than recursing forever.
func newCodecImpl(t reflect.Type, limits DecodeLimits, active map[reflect.Type]bool) (*codecImpl, error) {
	if active[t] {
		return nil, fmt.Errorf("%w: %s reaches itself through nested record fields", ErrCyclicType, t)
	}
	active[t] = true
	defer delete(active, t)

	c := &codecImpl{typ: t, limits: limits}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		if f.PkgPath != "" {
			continue // unexported
		}
		name := f.Name
		if tag := f.Tag.Get("binrec"); tag != "" {
			if tag == "-" {
				continue
			}
			name = tag
		}

		d, err := c.analyzeField(f, name, active)
		if err != nil {
			return nil, err
		}
		c.fields = append(c.fields, d)
	}

	return c, nil
}

// analyzeField categorizes a single field and binds its routines.
func (c *codecImpl) analyzeField(f reflect.StructField, name string, active map[reflect.Type]bool) (fieldDesc, error) {
	d := fieldDesc{offset: f.Offset, typ: f.Type, name: name}

	ft := f.Type
	switch {
	case kindOfPrimitive(ft.Kind()) != KindInvalid:
		// primitive fields ride the marshal/unmarshal fast paths, no bound
		// routine needed
		d.kind = kindOfPrimitive(ft.Kind())

	case ft.Kind() == reflect.String:
		d.kind = KindString

	case ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.String:
		d.kind = KindString | kindPtrFlag
		d.write = stringPtrWriter()
		d.read = stringPtrReader(c.limits)

	case ft.Kind() == reflect.Struct:
		sub, err := newCodecImpl(ft, c.limits, active)
		if err != nil {
			return d, fieldError(c.typ, name, err)
		}
		d.kind = KindStruct
		d.sub = sub

	case ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.Struct:
		sub, err := newCodecImpl(ft.Elem(), c.limits, active)
		if err != nil {
			return d, fieldError(c.typ, name, err)
		}
		d.kind = KindStruct | kindPtrFlag
		d.sub = sub
		d.write = structPtrWriter(sub)
		d.read = structPtrReader(sub, ft.Elem())

	case ft.Kind() == reflect.Slice:
		return c.analyzeSlice(f, d, active)

	case ft.Kind() == reflect.Map:
		return c.analyzeMap(f, d, active)

	default:
		return d, unsupported(c.typ, name, "type %s has no wire form", ft)
	}

	return d, nil
}

// analyzeSlice resolves a slice field to a primitive array or a list and
// generates its container routines.
func (c *codecImpl) analyzeSlice(f reflect.StructField, d fieldDesc, active map[reflect.Type]bool) (fieldDesc, error) {
	et := f.Type.Elem()

	elem := elementKindOf(et)
	switch {
	case elem == KindInvalid:
		return d, unsupported(c.typ, d.name, "slice element %s is not a supported element kind", et)

	case elem.primitive():
		d.kind = KindArray
		d.elem = elem
		d.write = newSliceWriter(f.Type, elem, nil)
		d.read = newSliceReader(f.Type, elem, nil, c.limits)

	case elem == KindString:
		d.kind = KindList
		d.elem = elem
		d.write = newSliceWriter(f.Type, elem, nil)
		d.read = newSliceReader(f.Type, elem, nil, c.limits)

	default: // KindStruct, by value or behind a pointer
		st := et
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		sub, err := newCodecImpl(st, c.limits, active)
		if err != nil {
			return d, fieldError(c.typ, d.name, err)
		}
		d.kind = KindList
		d.elem = elem
		d.sub = sub
		d.write = newSliceWriter(f.Type, elem, sub)
		d.read = newSliceReader(f.Type, elem, sub, c.limits)
	}

	return d, nil
}

// analyzeMap resolves key and value kinds and generates the map routines.
func (c *codecImpl) analyzeMap(f reflect.StructField, d fieldDesc, active map[reflect.Type]bool) (fieldDesc, error) {
	kt, vt := f.Type.Key(), f.Type.Elem()

	key := elementKindOf(kt)
	if key == KindInvalid || kt.Kind() == reflect.Pointer {
		return d, unsupported(c.typ, d.name, "map key %s is not a supported element kind", kt)
	}
	val := elementKindOf(vt)
	if val == KindInvalid {
		return d, unsupported(c.typ, d.name, "map value %s is not a supported element kind", vt)
	}

	var keySub, valSub *codecImpl
	var err error
	if key == KindStruct {
		if keySub, err = newCodecImpl(kt, c.limits, active); err != nil {
			return d, fieldError(c.typ, d.name, err)
		}
		d.keySub = keySub
	}
	if val == KindStruct {
		st := vt
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		if valSub, err = newCodecImpl(st, c.limits, active); err != nil {
			return d, fieldError(c.typ, d.name, err)
		}
		d.sub = valSub
	}

	d.kind = KindMap
	d.key = key
	d.val = val
	d.write = newMapWriter(f.Type, key, val, keySub, valSub)
	d.read = newMapReader(f.Type, key, val, keySub, valSub, c.limits)

	return d, nil
}

func unsupported(t reflect.Type, field, format string, args ...any) error {
	return fmt.Errorf("%w: field %q of %s: %s", ErrUnsupportedElement, field, t, fmt.Sprintf(format, args...))
}

// fieldError contextualizes nested analysis failures without re-wrapping the
// kind, so errors.Is keeps matching the innermost cause.
func fieldError(t reflect.Type, field string, err error) error {
	return fmt.Errorf("field %q of %s: %w", field, t, err)
}
