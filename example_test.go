package binrec_test

import (
	"fmt"

	"github.com/kungfusheep/binrec"
)

func Example() {
	// Define your record type
	type Person struct {
		Name string
		Age  int64
		Tags []string
	}

	// Create the codec once (thread-safe, reusable)
	codec, err := binrec.NewCodec[Person]()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	alice := Person{
		Name: "TestUser",
		Age:  32,
		Tags: []string{"engineer", "go"},
	}

	// Encode to binary
	encoded := codec.Encode(&alice)
	fmt.Printf("Encoded %d bytes\n", len(encoded))

	// Decode from binary
	decoded, err := codec.Decode(encoded)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Decoded: %+v\n", *decoded)
	// Output:
	// Encoded 43 bytes
	// Decoded: {Name:TestUser Age:32 Tags:[engineer go]}
}

func ExampleDocumentBuilder() {
	// Build a record image by hand, in field order
	doc := &binrec.DocumentBuilder{}

	doc.AppendInt32(42).
		AppendString("Hi").
		AppendBool(true)

	data := doc.Bytes()
	fmt.Printf("%d bytes, presence byte %#02x\n", len(data), data[0])
	// Output:
	// 12 bytes, presence byte 0x01
}
