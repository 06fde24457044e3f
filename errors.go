package binrec

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match these with errors.Is; the concrete errors carry
// field and type context.
var (
	// ErrUnsupportedElement is returned from codec construction when a field's
	// type cannot be resolved to a supported element kind.
	ErrUnsupportedElement = errors.New("binrec: unsupported element type")

	// ErrCyclicType is returned from codec construction when a record type
	// reaches itself through nested record fields.
	ErrCyclicType = errors.New("binrec: cyclic record type")

	// ErrTruncated is returned from decode when the input ends mid-value.
	ErrTruncated = errors.New("binrec: truncated input")

	// ErrInvalidLength is returned from decode when a length prefix is below
	// -1 or above the configured limits.
	ErrInvalidLength = errors.New("binrec: invalid length prefix")

	// ErrConstructionFailed is returned from decode when the target record
	// cannot be constructed, e.g. a nil destination pointer.
	ErrConstructionFailed = errors.New("binrec: record construction failed")
)

// decodeFault carries a decode error up through the instruction functions.
// The hot path stays free of error returns; Unmarshal recovers the fault at
// the boundary, the same way the stdlib codecs do.
type decodeFault struct {
	err error
}

// faultf panics with a wrapped decode error.
func faultf(kind error, format string, args ...any) {
	panic(decodeFault{fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))})
}

// recoverFault converts a decodeFault panic into the returned error. Any
// other panic is re-raised.
func recoverFault(err *error) {
	switch f := recover().(type) {
	case nil:
	case decodeFault:
		*err = f.err
	default:
		panic(f)
	}
}
