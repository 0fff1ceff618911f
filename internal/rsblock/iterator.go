package rsblock

import (
	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/primitive"
)

// Iterator decodes a block payload into values, tracking how far it has
// advanced within the block's row_count.
type Iterator[T any] struct {
	codec    primitive.Codec[T]
	payload  []byte
	rowCount int
	nextRow  int
}

// NewIterator constructs an Iterator over payload, which holds rowCount
// fixed-width values.
func NewIterator[T any](codec primitive.Codec[T], payload []byte, rowCount int) *Iterator[T] {
	return &Iterator[T]{codec: codec, payload: payload, rowCount: rowCount}
}

// RemainingItems returns the number of values not yet consumed.
func (it *Iterator[T]) RemainingItems() int {
	return it.rowCount - it.nextRow
}

// Skip advances past n values without decoding them. n may exceed the
// number of remaining values, in which case subsequent NextBatch calls
// return 0.
func (it *Iterator[T]) Skip(n int) {
	it.nextRow += n
}

// NextBatch decodes up to expectedSize values (or all remaining values when
// hasLimit is false) into builder, returning the count produced.
func (it *Iterator[T]) NextBatch(expectedSize int, hasLimit bool, builder *array.Builder[T]) int {
	if it.nextRow >= it.rowCount {
		return 0
	}
	remaining := it.rowCount - it.nextRow
	n := remaining
	if hasLimit && expectedSize < n {
		n = expectedSize
	}
	width := it.codec.Width()
	for i := 0; i < n; i++ {
		off := (it.nextRow + i) * width
		builder.Append(it.codec.Decode(it.payload[off : off+width]))
	}
	it.nextRow += n
	return n
}
