// Package array provides the typed, immutable in-memory array and chunk
// types that flow across the storage engine's boundary: a column builder
// consumes arrays on append, a column iterator produces them on scan.
package array

import "fmt"

// DataType identifies one of the primitive types a column can hold.
type DataType int

const (
	// Int32 is a 4-byte signed integer.
	Int32 DataType = iota + 1
	// Float64 is an 8-byte IEEE-754 float.
	Float64
	// Bool is a 1-byte boolean.
	Bool
)

// String returns a human-readable name for the data type.
func (t DataType) String() string {
	switch t {
	case Int32:
		return "Int32"
	case Float64:
		return "Float64"
	case Bool:
		return "Bool"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Width returns the fixed on-disk width in bytes of a single value of t.
func (t DataType) Width() int {
	switch t {
	case Int32:
		return 4
	case Float64:
		return 8
	case Bool:
		return 1
	default:
		return 0
	}
}

// IsValid reports whether t is one of the known primitive data types.
func (t DataType) IsValid() bool {
	switch t {
	case Int32, Float64, Bool:
		return true
	default:
		return false
	}
}

// ColumnDesc describes one column of a table: its catalog identity and the
// primitive type its values are stored as.
type ColumnDesc struct {
	ID       int
	Name     string
	DataType DataType
	Nullable bool
}

// PrimitiveArray is a contiguous, immutable sequence of values of one
// primitive type, with an optional per-element validity bitmap. A nil
// valid slice means every element is valid (the common case for on-disk
// columns, which never encode nulls).
type PrimitiveArray[T any] struct {
	data  []T
	valid []bool
}

// Len returns the number of elements in the array.
func (a *PrimitiveArray[T]) Len() int {
	return len(a.data)
}

// Get returns the value at index i and whether it is valid (non-null).
func (a *PrimitiveArray[T]) Get(i int) (T, bool) {
	if a.valid != nil && !a.valid[i] {
		var zero T
		return zero, false
	}
	return a.data[i], true
}

// IsNull reports whether the element at index i is null.
func (a *PrimitiveArray[T]) IsNull(i int) bool {
	return a.valid != nil && !a.valid[i]
}

// HasNulls reports whether any element of the array is null.
func (a *PrimitiveArray[T]) HasNulls() bool {
	if a.valid == nil {
		return false
	}
	for _, v := range a.valid {
		if !v {
			return true
		}
	}
	return false
}

// Values returns the raw backing slice, including the placeholder values
// stored at null positions. Callers that need to honor nulls should consult
// IsNull/Get instead of indexing this directly.
func (a *PrimitiveArray[T]) Values() []T {
	return a.data
}

// Int32Array is an array of 4-byte signed integers.
type Int32Array = PrimitiveArray[int32]

// Float64Array is an array of 8-byte floats.
type Float64Array = PrimitiveArray[float64]

// BoolArray is an array of booleans.
type BoolArray = PrimitiveArray[bool]

// Builder accumulates values of type T into a PrimitiveArray.
type Builder[T any] struct {
	data  []T
	valid []bool
}

// NewBuilder creates a Builder with the given capacity hint.
func NewBuilder[T any](capacityHint int) *Builder[T] {
	return &Builder[T]{data: make([]T, 0, capacityHint)}
}

// Append adds a non-null value.
func (b *Builder[T]) Append(v T) {
	b.data = append(b.data, v)
	if b.valid != nil {
		b.valid = append(b.valid, true)
	}
}

// AppendNull adds a null placeholder.
func (b *Builder[T]) AppendNull() {
	if b.valid == nil {
		b.valid = make([]bool, len(b.data), cap(b.data))
		for i := range b.valid {
			b.valid[i] = true
		}
	}
	var zero T
	b.data = append(b.data, zero)
	b.valid = append(b.valid, false)
}

// Len returns the number of values appended so far.
func (b *Builder[T]) Len() int {
	return len(b.data)
}

// Build finalizes the builder into a PrimitiveArray.
func (b *Builder[T]) Build() *PrimitiveArray[T] {
	return &PrimitiveArray[T]{data: b.data, valid: b.valid}
}

// ArrayImpl erases a concrete PrimitiveArray[T] behind a DataType tag, the
// boundary type a column builder's Append and a column iterator's
// NextBatch actually traffic in.
type ArrayImpl struct {
	DataType DataType
	int32    *Int32Array
	float64  *Float64Array
	boolean  *BoolArray
}

// NewInt32Array wraps an Int32Array as an ArrayImpl.
func NewInt32Array(a *Int32Array) ArrayImpl {
	return ArrayImpl{DataType: Int32, int32: a}
}

// NewFloat64Array wraps a Float64Array as an ArrayImpl.
func NewFloat64Array(a *Float64Array) ArrayImpl {
	return ArrayImpl{DataType: Float64, float64: a}
}

// NewBoolArray wraps a BoolArray as an ArrayImpl.
func NewBoolArray(a *BoolArray) ArrayImpl {
	return ArrayImpl{DataType: Bool, boolean: a}
}

// AsInt32 returns the wrapped Int32Array, or nil if DataType is not Int32.
func (a ArrayImpl) AsInt32() *Int32Array { return a.int32 }

// AsFloat64 returns the wrapped Float64Array, or nil if DataType is not Float64.
func (a ArrayImpl) AsFloat64() *Float64Array { return a.float64 }

// AsBool returns the wrapped BoolArray, or nil if DataType is not Bool.
func (a ArrayImpl) AsBool() *BoolArray { return a.boolean }

// Len returns the cardinality of the wrapped array.
func (a ArrayImpl) Len() int {
	switch a.DataType {
	case Int32:
		return a.int32.Len()
	case Float64:
		return a.float64.Len()
	case Bool:
		return a.boolean.Len()
	default:
		return 0
	}
}

// HasNulls reports whether the wrapped array carries any null values.
func (a ArrayImpl) HasNulls() bool {
	switch a.DataType {
	case Int32:
		return a.int32.HasNulls()
	case Float64:
		return a.float64.HasNulls()
	case Bool:
		return a.boolean.HasNulls()
	default:
		return false
	}
}

// DataChunk is an ordered sequence of arrays of equal cardinality. It
// carries no schema of its own; the caller is responsible for matching
// chunk columns to a table's column descriptors in order.
type DataChunk struct {
	Arrays []ArrayImpl
}

// Cardinality returns the row count of the chunk, or -1 if the arrays
// disagree on length (a caller bug).
func (c DataChunk) Cardinality() int {
	if len(c.Arrays) == 0 {
		return 0
	}
	n := c.Arrays[0].Len()
	for _, a := range c.Arrays[1:] {
		if a.Len() != n {
			return -1
		}
	}
	return n
}
