package column

import (
	"fmt"

	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/primitive"
	"github.com/riselite/storage/internal/rsblock"
)

// BuilderImpl dispatches the generic column Builder across the closed set
// of supported data types: Int32, Float64, Bool. It is the boundary type
// a row-set builder actually holds, one per column.
type BuilderImpl struct {
	dataType array.DataType
	i32      *Builder[int32]
	f64      *Builder[float64]
	b        *Builder[bool]
}

// NewBuilderImpl constructs a BuilderImpl for dataType and opts. A
// nullable column is rejected: on-disk nullable encodings are reserved
// for future work.
func NewBuilderImpl(dataType array.DataType, nullable bool, opts Options) (*BuilderImpl, error) {
	if nullable {
		return nil, ErrNullableUnsupported
	}
	impl := &BuilderImpl{dataType: dataType}
	switch dataType {
	case array.Int32:
		impl.i32 = NewBuilder[int32](primitive.Int32Codec{}, opts)
	case array.Float64:
		impl.f64 = NewBuilder[float64](primitive.Float64Codec{}, opts)
	case array.Bool:
		impl.b = NewBuilder[bool](primitive.BoolCodec{}, opts)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dataType)
	}
	return impl, nil
}

// Append dispatches a into the matching typed builder. a's data type must
// match the type this BuilderImpl was constructed for; a mismatch is a
// programmer error in the caller (the row-set builder), surfaced as an
// error rather than a panic.
func (b *BuilderImpl) Append(a array.ArrayImpl) error {
	if a.DataType != b.dataType {
		return fmt.Errorf("column: chunk array type %s does not match column type %s", a.DataType, b.dataType)
	}
	switch b.dataType {
	case array.Int32:
		arr := a.AsInt32()
		if arr.HasNulls() {
			return ErrNullableUnsupported
		}
		b.i32.Append(arr.Values())
	case array.Float64:
		arr := a.AsFloat64()
		if arr.HasNulls() {
			return ErrNullableUnsupported
		}
		b.f64.Append(arr.Values())
	case array.Bool:
		arr := a.AsBool()
		if arr.HasNulls() {
			return ErrNullableUnsupported
		}
		b.b.Append(arr.Values())
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedType, b.dataType)
	}
	return nil
}

// Finish flushes any in-flight block and returns the block index plus the
// encoded column bytes.
func (b *BuilderImpl) Finish() ([]rsblock.IndexEntry, []byte) {
	switch b.dataType {
	case array.Int32:
		return b.i32.Finish()
	case array.Float64:
		return b.f64.Finish()
	case array.Bool:
		return b.b.Finish()
	default:
		return nil, nil
	}
}

// IteratorImpl dispatches the generic column Iterator across the closed
// set of supported data types, erasing the concrete array it produces
// back to array.ArrayImpl. It is the boundary type a row-set iterator
// actually holds, one per Idx column reference.
type IteratorImpl struct {
	dataType array.DataType
	i32      *Iterator[int32]
	f64      *Iterator[float64]
	b        *Iterator[bool]
}

// NewIteratorImpl constructs an IteratorImpl over col for dataType,
// starting at startRow.
func NewIteratorImpl(dataType array.DataType, col *Column, startRow uint32) (*IteratorImpl, error) {
	impl := &IteratorImpl{dataType: dataType}
	var err error
	switch dataType {
	case array.Int32:
		impl.i32, err = NewIterator[int32](primitive.Int32Codec{}, col, startRow)
	case array.Float64:
		impl.f64, err = NewIterator[float64](primitive.Float64Codec{}, col, startRow)
	case array.Bool:
		impl.b, err = NewIterator[bool](primitive.BoolCodec{}, col, startRow)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, dataType)
	}
	if err != nil {
		return nil, err
	}
	return impl, nil
}

// defaultBatchCap sizes an array.Builder when the caller didn't supply an
// expected batch size.
const defaultBatchCap = 64

// NextBatch decodes the next batch of values, erased back to an
// array.ArrayImpl. ok is false once the iterator is exhausted.
func (it *IteratorImpl) NextBatch(expectedSize int, hasLimit bool) (firstRow uint32, result array.ArrayImpl, ok bool, err error) {
	capHint := defaultBatchCap
	if hasLimit {
		capHint = expectedSize
	}
	switch it.dataType {
	case array.Int32:
		b := array.NewBuilder[int32](capHint)
		first, n, e := it.i32.NextBatch(expectedSize, hasLimit, b)
		if e != nil || n == 0 {
			return 0, array.ArrayImpl{}, false, e
		}
		return first, array.NewInt32Array(b.Build()), true, nil
	case array.Float64:
		b := array.NewBuilder[float64](capHint)
		first, n, e := it.f64.NextBatch(expectedSize, hasLimit, b)
		if e != nil || n == 0 {
			return 0, array.ArrayImpl{}, false, e
		}
		return first, array.NewFloat64Array(b.Build()), true, nil
	case array.Bool:
		b := array.NewBuilder[bool](capHint)
		first, n, e := it.b.NextBatch(expectedSize, hasLimit, b)
		if e != nil || n == 0 {
			return 0, array.ArrayImpl{}, false, e
		}
		return first, array.NewBoolArray(b.Build()), true, nil
	default:
		return 0, array.ArrayImpl{}, false, fmt.Errorf("%w: %s", ErrUnsupportedType, it.dataType)
	}
}

// FetchHint returns the number of rows fetchable from the iterator's
// current position without another block read.
func (it *IteratorImpl) FetchHint() int {
	switch it.dataType {
	case array.Int32:
		return it.i32.FetchHint()
	case array.Float64:
		return it.f64.FetchHint()
	case array.Bool:
		return it.b.FetchHint()
	default:
		return 0
	}
}
