package binrec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"pgregory.net/rapid"
)

// propRecord spans the full matrix of supported element kinds.
type propRecord struct {
	B   bool
	I8  int8
	I16 int16
	C   uint16
	I32 int32
	I64 int64
	F32 float32
	F64 float64
	S   string
	NS  *string
	Bs  []byte
	Is  []int64
	Fs  []float32
	Ss  []string
	M   map[string]int32
	MI  map[int32]string
	In  Inner
	Pin *Inner
	L   []Inner
	PL  []*Inner
}

var innerGen = rapid.Custom(func(t *rapid.T) Inner {
	return Inner{V: rapid.Int32().Draw(t, "v")}
})

func drawPropRecord(t *rapid.T) propRecord {
	return propRecord{
		B:   rapid.Bool().Draw(t, "b"),
		I8:  rapid.Int8().Draw(t, "i8"),
		I16: rapid.Int16().Draw(t, "i16"),
		C:   rapid.Uint16().Draw(t, "c"),
		I32: rapid.Int32().Draw(t, "i32"),
		I64: rapid.Int64().Draw(t, "i64"),
		F32: rapid.Float32().Draw(t, "f32"),
		F64: rapid.Float64().Draw(t, "f64"),
		S:   rapid.String().Draw(t, "s"),
		NS:  rapid.Ptr(rapid.String(), true).Draw(t, "ns"),
		Bs:  rapid.SliceOf(rapid.Byte()).Draw(t, "bs"),
		Is:  rapid.SliceOf(rapid.Int64()).Draw(t, "is"),
		Fs:  rapid.SliceOf(rapid.Float32()).Draw(t, "fs"),
		Ss:  rapid.SliceOf(rapid.String()).Draw(t, "ss"),
		M:   rapid.MapOf(rapid.String(), rapid.Int32()).Draw(t, "m"),
		MI:  rapid.MapOf(rapid.Int32(), rapid.String()).Draw(t, "mi"),
		In:  innerGen.Draw(t, "in"),
		Pin: rapid.Ptr(innerGen, true).Draw(t, "pin"),
		L:   rapid.SliceOf(innerGen).Draw(t, "l"),
		PL:  rapid.SliceOf(rapid.Ptr(innerGen, true)).Draw(t, "pl"),
	}
}

// TestRoundTripProperty checks decode(encode(x)) == x across random instances
// of every supported element kind, and that re-encoding the decoded value
// itself round-trips.
func TestRoundTripProperty(t *testing.T) {
	codec := mustCodec[propRecord](t)

	rapid.Check(t, func(rt *rapid.T) {
		v := drawPropRecord(rt)

		data := codec.Encode(&v)

		var got propRecord
		if err := codec.Unmarshal(data, &got); err != nil {
			rt.Fatalf("unmarshal: %v", err)
		}
		if diff := cmp.Diff(v, got, cmpopts.EquateNaNs()); diff != "" {
			rt.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}

		data2 := codec.Encode(&got)
		var got2 propRecord
		if err := codec.Unmarshal(data2, &got2); err != nil {
			rt.Fatalf("second unmarshal: %v", err)
		}
		if diff := cmp.Diff(got, got2, cmpopts.EquateNaNs()); diff != "" {
			rt.Fatalf("re-encode mismatch (-want +got):\n%s", diff)
		}
	})
}

// mapFreeRecord leaves maps out so byte-level determinism holds exactly.
type mapFreeRecord struct {
	I32 int32
	S   string
	NS  *string
	Is  []int64
	Ss  []string
	In  Inner
	Pin *Inner
}

func TestEncodeDeterminismProperty(t *testing.T) {
	codec := mustCodec[mapFreeRecord](t)

	rapid.Check(t, func(rt *rapid.T) {
		v := mapFreeRecord{
			I32: rapid.Int32().Draw(rt, "i32"),
			S:   rapid.String().Draw(rt, "s"),
			NS:  rapid.Ptr(rapid.String(), true).Draw(rt, "ns"),
			Is:  rapid.SliceOf(rapid.Int64()).Draw(rt, "is"),
			Ss:  rapid.SliceOf(rapid.String()).Draw(rt, "ss"),
			In:  innerGen.Draw(rt, "in"),
			Pin: rapid.Ptr(innerGen, true).Draw(rt, "pin"),
		}

		first := codec.Encode(&v)
		second := codec.Encode(&v)
		if !bytes.Equal(first, second) {
			rt.Fatalf("encoding is not deterministic:\n%x\n%x", first, second)
		}

		// every decode of the same bytes yields the same value
		a, err := codec.Decode(first)
		if err != nil {
			rt.Fatalf("decode: %v", err)
		}
		b, err := codec.Decode(second)
		if err != nil {
			rt.Fatalf("decode: %v", err)
		}
		if diff := cmp.Diff(a, b); diff != "" {
			rt.Fatalf("decode mismatch (-a +b):\n%s", diff)
		}
	})
}
