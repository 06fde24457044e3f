package binrec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDocumentBuilderMatchesCodec(t *testing.T) {
	c := mustCodec[SimpleObject](t)

	v := SimpleObject{ID: 42, Name: "Hi", Active: true, D: 1.5, F: 0.25, L: 7, S: 3}

	doc := &DocumentBuilder{}
	doc.AppendInt32(42).
		AppendString("Hi").
		AppendBool(true).
		AppendFloat64(1.5).
		AppendFloat32(0.25).
		AppendInt64(7).
		AppendInt16(3)

	require.Equal(t, c.Encode(&v), doc.Bytes())
}

func TestDocumentBuilderContainers(t *testing.T) {
	c := mustCodec[IntegerList](t)

	doc := &DocumentBuilder{}
	doc.AppendInt32Slice([]int32{10, 20, 30})
	require.Equal(t, c.Encode(&IntegerList{Xs: []int32{10, 20, 30}}), doc.Bytes())

	null := &DocumentBuilder{}
	null.AppendNull()
	require.Equal(t, c.Encode(&IntegerList{}), null.Bytes())
}

func TestDocumentBuilderNested(t *testing.T) {
	c := mustCodec[Outer](t)

	inner := (&DocumentBuilder{}).AppendInt32(9)
	mid := (&DocumentBuilder{}).AppendNestedDocument(inner)
	outer := (&DocumentBuilder{}).AppendNestedDocument(mid)

	require.Equal(t, c.Encode(&Outer{Mid: Mid{Inner: Inner{V: 9}}}), outer.Bytes())
}

func TestDocumentBuilderDecodable(t *testing.T) {
	type rec struct {
		Name *string
		Tags []string
	}
	c := mustCodec[rec](t)

	doc := &DocumentBuilder{}
	doc.AppendNull() // null Name
	doc.AppendStringSlice([]string{"x", "y"})

	decoded, err := c.Decode(doc.Bytes())
	require.NoError(t, err)
	require.Nil(t, decoded.Name)
	require.Equal(t, []string{"x", "y"}, decoded.Tags)
}

func TestNullDocument(t *testing.T) {
	c := mustCodec[SimpleObject](t)

	decoded, err := c.Decode(NullDocument())
	require.NoError(t, err)
	require.Nil(t, decoded)
}
