package binrec

// DocumentBuilder is a simple inline progressive builder for raw record
// images. You append values in field order and it builds the wire bytes up as
// you go along, with no codec involved. Useful for stating expected encodings
// in tests and for generating reference vectors; the builder trusts the
// caller to append fields in the order the target type declares them.
type DocumentBuilder struct {
	body Buffer
}

// Bytes returns the complete document: the presence byte followed by the
// appended field sequence.
func (d *DocumentBuilder) Bytes() []byte {
	out := make([]byte, 0, len(d.body.Bytes)+1)
	out = append(out, 1)
	return append(out, d.body.Bytes...)
}

// NullDocument is the encoding of a null record.
func NullDocument() []byte {
	return []byte{0}
}

// AppendBool adds a boolean field.
func (d *DocumentBuilder) AppendBool(value bool) *DocumentBuilder {
	d.body.AppendBool(value)
	return d
}

// AppendInt8 adds a signed byte field.
func (d *DocumentBuilder) AppendInt8(value int8) *DocumentBuilder {
	d.body.AppendInt8(value)
	return d
}

// AppendInt16 adds a 16-bit integer field.
func (d *DocumentBuilder) AppendInt16(value int16) *DocumentBuilder {
	d.body.AppendInt16(value)
	return d
}

// AppendInt32 adds a 32-bit integer field.
func (d *DocumentBuilder) AppendInt32(value int32) *DocumentBuilder {
	d.body.AppendInt32(value)
	return d
}

// AppendInt64 adds a 64-bit integer field.
func (d *DocumentBuilder) AppendInt64(value int64) *DocumentBuilder {
	d.body.AppendInt64(value)
	return d
}

// AppendFloat32 adds a float32 field.
func (d *DocumentBuilder) AppendFloat32(value float32) *DocumentBuilder {
	d.body.AppendFloat32(value)
	return d
}

// AppendFloat64 adds a float64 field.
func (d *DocumentBuilder) AppendFloat64(value float64) *DocumentBuilder {
	d.body.AppendFloat64(value)
	return d
}

// AppendChar adds a UTF-16 code unit field.
func (d *DocumentBuilder) AppendChar(value uint16) *DocumentBuilder {
	d.body.AppendChar(value)
	return d
}

// AppendString adds a length-prefixed string field.
func (d *DocumentBuilder) AppendString(value string) *DocumentBuilder {
	d.body.AppendString(value)
	return d
}

// AppendNull adds the -1 sentinel for a null string or container.
func (d *DocumentBuilder) AppendNull() *DocumentBuilder {
	d.body.AppendNull()
	return d
}

// AppendCount adds a bare container length prefix; the caller appends the
// elements or entries that follow it.
func (d *DocumentBuilder) AppendCount(n int) *DocumentBuilder {
	d.body.AppendLength(n)
	return d
}

// AppendInt32Slice adds a length-prefixed run of 32-bit integers.
func (d *DocumentBuilder) AppendInt32Slice(values []int32) *DocumentBuilder {
	d.body.AppendLength(len(values))
	for _, v := range values {
		d.body.AppendInt32(v)
	}
	return d
}

// AppendInt64Slice adds a length-prefixed run of 64-bit integers.
func (d *DocumentBuilder) AppendInt64Slice(values []int64) *DocumentBuilder {
	d.body.AppendLength(len(values))
	for _, v := range values {
		d.body.AppendInt64(v)
	}
	return d
}

// AppendFloat64Slice adds a length-prefixed run of float64s.
func (d *DocumentBuilder) AppendFloat64Slice(values []float64) *DocumentBuilder {
	d.body.AppendLength(len(values))
	for _, v := range values {
		d.body.AppendFloat64(v)
	}
	return d
}

// AppendStringSlice adds a length-prefixed run of strings.
func (d *DocumentBuilder) AppendStringSlice(values []string) *DocumentBuilder {
	d.body.AppendLength(len(values))
	for _, v := range values {
		d.body.AppendString(v)
	}
	return d
}

// AppendByteSlice adds a length-prefixed raw byte run.
func (d *DocumentBuilder) AppendByteSlice(values []byte) *DocumentBuilder {
	d.body.AppendLength(len(values))
	d.body.AppendBytes(values)
	return d
}

// AppendNestedDocument appends another record within this one, marked
// present. Equivalent of a non-nil nested struct.
func (d *DocumentBuilder) AppendNestedDocument(value *DocumentBuilder) *DocumentBuilder {
	d.body.AppendBytes(value.Bytes())
	return d
}

// AppendNullNested appends the null marker for an absent nested record.
func (d *DocumentBuilder) AppendNullNested() *DocumentBuilder {
	d.body.AppendUint8(0)
	return d
}
