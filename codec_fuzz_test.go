package binrec

import (
	"errors"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// FuzzDecodeArbitraryBytes feeds random byte runs to decode and asserts the
// closed failure contract: decoding either succeeds or fails with one of the
// documented error kinds. Panics and out-of-bounds reads fail the fuzz run on
// their own.
func FuzzDecodeArbitraryBytes(f *testing.F) {
	codec, err := NewCodec[propRecord]()
	if err != nil {
		f.Fatal(err)
	}
	strict, err := NewCodecWithLimits[propRecord](DecodeLimits{MaxContainerLen: 8, MaxStringLen: 16})
	if err != nil {
		f.Fatal(err)
	}

	// seed with valid documents and the interesting sentinels
	f.Add([]byte{})
	f.Add([]byte{0x00})
	f.Add([]byte{0x01})
	f.Add([]byte{0x01, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0x01, 0xfe, 0xff, 0xff, 0xff})
	s := "seed"
	f.Add(codec.Encode(&propRecord{S: "hello", NS: &s, Is: []int64{1, 2}, M: map[string]int32{"a": 1}}))
	f.Add(codec.Encode(&propRecord{Pin: &Inner{V: 9}, L: []Inner{{V: 1}}, PL: []*Inner{nil, {V: 2}}}))

	f.Fuzz(func(t *testing.T, data []byte) {
		for _, c := range []*Codec[propRecord]{codec, strict} {
			v, err := c.Decode(data)
			if err == nil {
				continue
			}
			if v != nil {
				t.Errorf("non-nil record alongside error %v", err)
			}
			if !errors.Is(err, ErrTruncated) && !errors.Is(err, ErrInvalidLength) && !errors.Is(err, ErrConstructionFailed) {
				t.Errorf("error outside the decode taxonomy: %v", err)
			}
		}
	})
}

// FuzzRoundTrip populates random well-typed instances from the fuzz input and
// asserts they survive an encode/decode cycle unchanged.
func FuzzRoundTrip(f *testing.F) {
	codec, err := NewCodec[propRecord]()
	if err != nil {
		f.Fatal(err)
	}

	f.Add([]byte("some bytes to derive a record from"))
	f.Add([]byte{0x01, 0xff, 0x00, 0x42})

	f.Fuzz(func(t *testing.T, data []byte) {
		var v propRecord
		if err := fuzz.NewConsumer(data).GenerateStruct(&v); err != nil {
			return // not enough input to build a record
		}

		encoded := codec.Encode(&v)

		var got propRecord
		if err := codec.Unmarshal(encoded, &got); err != nil {
			t.Fatalf("unmarshal of own encoding failed: %v", err)
		}
		if diff := cmp.Diff(v, got, cmpopts.EquateNaNs(), cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}
