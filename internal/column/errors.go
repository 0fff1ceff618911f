package column

import "errors"

// Sentinel errors raised while building or reading a column, re-exported
// by the root storage package so callers never need to import this
// internal package directly.
var (
	// ErrNullableUnsupported is returned when a column builder is asked to
	// encode a nullable column; nullable encodings are reserved for
	// future work.
	ErrNullableUnsupported = errors.New("column: nullable encoding not supported")
	// ErrUnsupportedType is returned when a builder or iterator is handed
	// a data type outside the closed {Int32, Float64, Bool} set.
	ErrUnsupportedType = errors.New("column: unsupported column type")
)
