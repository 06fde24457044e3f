// Package binrec implements a schema-free binary serialization format for
// statically-typed records. A Codec is built once per record type; building it
// analyses the type's fields and binds a specialized encode and decode routine
// for each, so the steady-state paths do no type analysis and no boxing of
// primitives. The record-level encode and decode loops still switch on each
// field's pre-bound kind, and per-call allocation is not avoided everywhere:
// Encode copies its result into a new slice and decoding allocates containers.
package binrec

import (
	"reflect"
	"unsafe"
)

// Kind identifies the wire form of a field or container element.
type Kind uint8

const (
	KindInvalid Kind = iota

	// scalar element kinds
	KindBool    // 1 byte, any non-zero decodes as true
	KindInt8    // 1 byte
	KindInt16   // 2 bytes little-endian
	KindInt32   // 4 bytes little-endian
	KindInt64   // 8 bytes little-endian
	KindFloat32 // IEEE-754 binary32 little-endian
	KindFloat64 // IEEE-754 binary64 little-endian
	KindChar    // one UTF-16 code unit, 2 bytes little-endian
	KindString  // int32 length (-1 null) + UTF-8 bytes
	KindStruct  // presence byte + nested record fields

	// container categories, never valid as element kinds
	KindList  // int32 length (-1 null) + elements
	KindArray // like KindList, element is a fixed-width primitive
	KindMap   // int32 entry count (-1 null) + key/value pairs
)

// kindPtrFlag marks a nullable field category (pointer in the record type).
const kindPtrFlag Kind = 1 << 7

func (k Kind) String() string {
	if k&kindPtrFlag != 0 {
		return "*" + (k &^ kindPtrFlag).String()
	}
	switch k {
	case KindBool:
		return "Bool"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindStruct:
		return "Struct"
	case KindList:
		return "List"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	}
	return "invalid Kind"
}

// primitive reports whether k is a fixed-width scalar.
func (k Kind) primitive() bool {
	return k >= KindBool && k <= KindChar
}

// size returns the encoded width of a primitive kind in bytes.
func (k Kind) size() int {
	switch k {
	case KindBool, KindInt8:
		return 1
	case KindInt16, KindChar:
		return 2
	case KindInt32, KindFloat32:
		return 4
	case KindInt64, KindFloat64:
		return 8
	}
	return 0
}

// kindOfPrimitive maps a reflect.Kind to its wire Kind, or KindInvalid when
// the type has no fixed wire form. uint8 shares the Int8 image (one raw byte)
// and uint16 is the UTF-16 code unit type. int and uint are rejected because
// their width is platform-dependent.
func kindOfPrimitive(k reflect.Kind) Kind {
	switch k {
	case reflect.Bool:
		return KindBool
	case reflect.Int8, reflect.Uint8:
		return KindInt8
	case reflect.Int16:
		return KindInt16
	case reflect.Uint16:
		return KindChar
	case reflect.Int32:
		return KindInt32
	case reflect.Int64:
		return KindInt64
	case reflect.Float32:
		return KindFloat32
	case reflect.Float64:
		return KindFloat64
	}
	return KindInvalid
}

// elementKindOf resolves a container element or map key/value type to its
// element kind. Pointer-to-struct resolves to KindStruct; everything outside
// the closed element set resolves to KindInvalid.
func elementKindOf(t reflect.Type) Kind {
	if k := kindOfPrimitive(t.Kind()); k != KindInvalid {
		return k
	}
	switch t.Kind() {
	case reflect.String:
		return KindString
	case reflect.Struct:
		return KindStruct
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Struct {
			return KindStruct
		}
	}
	return KindInvalid
}

// sliceHeader replaces reflect.SliceHeader with inline pointer conversion
// for compatibility with vet and unsafe pointer rules.
type sliceHeader struct {
	Data unsafe.Pointer
	Len  int
	Cap  int
}
