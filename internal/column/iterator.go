package column

import (
	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/primitive"
	"github.com/riselite/storage/internal/rsblock"
)

// Iterator streams typed values out of a Column by decoding blocks
// lazily, starting at a given row id and only ever moving forward.
type Iterator[T any] struct {
	codec      primitive.Codec[T]
	col        *Column
	blockID    int
	blockIter  *rsblock.Iterator[T]
	currentRow uint32
	finished   bool
}

// NewIterator constructs an Iterator over col, positioned to yield rows
// starting at startRow. startRow must be less than col.TotalRows(); an
// out-of-range seek is a caller precondition violation (see DESIGN.md),
// not a validated error.
func NewIterator[T any](codec primitive.Codec[T], col *Column, startRow uint32) (*Iterator[T], error) {
	it := &Iterator[T]{codec: codec, col: col, currentRow: startRow}
	if col.NumBlocks() == 0 {
		it.finished = true
		return it, nil
	}
	blockID := col.BlockOfRow(startRow)
	if err := it.loadBlock(blockID); err != nil {
		return nil, err
	}
	entry := col.Entries()[blockID]
	it.blockIter.Skip(int(startRow - entry.FirstRowID))
	return it, nil
}

func (it *Iterator[T]) loadBlock(blockID int) error {
	_, payload, err := it.col.GetBlock(blockID)
	if err != nil {
		return err
	}
	entry := it.col.Entries()[blockID]
	it.blockID = blockID
	it.blockIter = rsblock.NewIterator[T](it.codec, payload, int(entry.RowCount))
	return nil
}

// NextBatch decodes up to expectedSize values into builder when hasLimit
// is true, crossing block boundaries as needed until the request is
// satisfied or the column ends. When hasLimit is false it decodes at most
// one block's worth and never crosses a boundary. It returns the row id
// of the first value produced and the count produced; n == 0 means the
// iterator is exhausted.
func (it *Iterator[T]) NextBatch(expectedSize int, hasLimit bool, builder *array.Builder[T]) (firstRow uint32, n int, err error) {
	if it.finished {
		return 0, 0, nil
	}
	firstRow = it.currentRow
	total := 0
	for {
		want := it.blockIter.RemainingItems()
		if hasLimit {
			if remaining := expectedSize - total; remaining < want {
				want = remaining
			}
		}
		got := it.blockIter.NextBatch(want, true, builder)
		total += got
		it.currentRow += uint32(got)

		if hasLimit {
			if total >= expectedSize {
				break
			}
		} else if total > 0 {
			break
		}

		if it.blockID+1 >= it.col.NumBlocks() {
			it.finished = true
			break
		}
		if err := it.loadBlock(it.blockID + 1); err != nil {
			return firstRow, total, err
		}
	}
	return firstRow, total, nil
}

// Skip advances the iterator past n rows without decoding them, possibly
// crossing block boundaries.
func (it *Iterator[T]) Skip(n int) {
	for n > 0 && !it.finished {
		remaining := it.blockIter.RemainingItems()
		if n < remaining {
			it.blockIter.Skip(n)
			it.currentRow += uint32(n)
			return
		}
		it.currentRow += uint32(remaining)
		n -= remaining
		if it.blockID+1 >= it.col.NumBlocks() {
			it.finished = true
			return
		}
		if err := it.loadBlock(it.blockID + 1); err != nil {
			it.finished = true
			return
		}
	}
}

// FetchHint returns the number of rows fetchable from the iterator's
// current position without another block read.
func (it *Iterator[T]) FetchHint() int {
	if it.finished {
		return 0
	}
	return it.blockIter.RemainingItems()
}
