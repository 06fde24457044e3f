package binrec

import (
	"sync"
	"testing"
)

type simpleStruct struct {
	A int32
	B string
}

func TestCodecConcurrentUseRace(t *testing.T) {
	codec, err := NewCodec[simpleStruct]()
	if err != nil {
		t.Fatal(err)
	}

	original := simpleStruct{A: 42, B: "hello"}
	b := codec.Encode(&original)

	decode := func(wg *sync.WaitGroup) {
		defer wg.Done()
		var s simpleStruct
		for j := 0; j < 100; j++ {
			_ = codec.Unmarshal(b, &s)
		}
	}

	encode := func(wg *sync.WaitGroup) {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			buf := NewBufferFromPool()
			codec.Marshal(&original, buf)
			buf.ReturnToPool()
		}
	}

	var wg sync.WaitGroup
	wg.Add(4)

	go decode(&wg)
	go decode(&wg)
	go encode(&wg)
	go encode(&wg)

	wg.Wait()
}

func TestRegistryConcurrentConstructionRace(t *testing.T) {
	ClearRegistry()

	var wg sync.WaitGroup
	codecs := make([]*Codec[simpleStruct], 8)

	for i := range codecs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := For[simpleStruct]()
			if err != nil {
				t.Error(err)
				return
			}
			codecs[i] = c
		}(i)
	}
	wg.Wait()

	for _, c := range codecs[1:] {
		if c != codecs[0] {
			t.Fatal("registry handed out more than one codec for the type")
		}
	}
}
