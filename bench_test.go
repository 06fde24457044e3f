package binrec

import (
	"testing"
)

type benchRecord struct {
	ID     int32
	Name   string
	Active bool
	Score  float64
	Tags   []string
	Hits   []int64
	Inner  Inner
}

var benchValue = benchRecord{
	ID:     1234,
	Name:   "a fairly typical string value",
	Active: true,
	Score:  99.25,
	Tags:   []string{"alpha", "beta", "gamma"},
	Hits:   []int64{1, 2, 3, 4, 5, 6, 7, 8},
	Inner:  Inner{V: 42},
}

func BenchmarkMarshal(b *testing.B) {
	codec, err := NewCodec[benchRecord]()
	if err != nil {
		b.Fatal(err)
	}

	buf := NewBufferFromPool()
	defer buf.ReturnToPool()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		codec.Marshal(&benchValue, buf)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	codec, err := NewCodec[benchRecord]()
	if err != nil {
		b.Fatal(err)
	}
	data := codec.Encode(&benchValue)

	var dst benchRecord
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := codec.Unmarshal(data, &dst); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodePooled(b *testing.B) {
	codec, err := NewCodec[benchRecord]()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = codec.Encode(&benchValue)
	}
}

func BenchmarkMarshalPrimitivesOnly(b *testing.B) {
	codec, err := NewCodec[SimpleObject]()
	if err != nil {
		b.Fatal(err)
	}
	v := SimpleObject{ID: 42, Name: "Hi", Active: true, D: 1.5, F: 0.25, L: 7, S: 3}

	buf := NewBufferFromPool()
	defer buf.ReturnToPool()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		codec.Marshal(&v, buf)
	}
}
