package rowset

import (
	"fmt"

	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/column"
)

// MaxOutput is the iterator's default chunk row cap, used when no
// explicit expected size is given and every live column iterator reports
// a zero fetch hint (e.g. once a batch has drained each column's current
// block and the next block is not loaded yet).
const MaxOutput = 65536

// Iterator drives one column.IteratorImpl per Idx column reference in
// lockstep, aligning on (first_row_id, length) and yielding a multi-column
// DataChunk per batch.
type Iterator struct {
	rowset *DiskRowset
	refs   []ColumnRef
	iters  []*column.IteratorImpl // nil for RowHandler slots and exhausted Idx slots
}

func newIterator(rs *DiskRowset, refs []ColumnRef, seekPos uint32) (*Iterator, error) {
	rowHandlers, idxCount := 0, 0
	for _, r := range refs {
		switch r.Kind {
		case RowHandlerRef:
			rowHandlers++
		case IdxRef:
			idxCount++
		}
	}
	if rowHandlers > 1 {
		return nil, ErrMultipleRowHandlers
	}
	if idxCount == 0 {
		return nil, ErrNoIdxColumns
	}

	iters := make([]*column.IteratorImpl, len(refs))
	for i, r := range refs {
		if r.Kind != IdxRef {
			continue
		}
		desc := rs.Columns[r.Index]
		it, err := column.NewIteratorImpl(desc.DataType, rs.Column(r.Index), seekPos)
		if err != nil {
			return nil, fmt.Errorf("rowset: open iterator for column %q: %w", desc.Name, err)
		}
		iters[i] = it
	}
	return &Iterator{rowset: rs, refs: refs, iters: iters}, nil
}

// NextBatch pulls the next aligned batch across all live column
// iterators. hasLimit=false derives the fetch size as the minimum
// positive fetch hint across live iterators, falling back to MaxOutput.
// It returns (nil, nil) once every Idx iterator is exhausted, and skips
// (retries) any batch that comes back empty.
func (it *Iterator) NextBatch(expectedSize int, hasLimit bool) (*array.DataChunk, error) {
	for {
		fetchSize, useLimit := expectedSize, hasLimit
		if !hasLimit {
			best := 0
			for _, colIt := range it.iters {
				if colIt == nil {
					continue
				}
				if h := colIt.FetchHint(); h > 0 && (best == 0 || h < best) {
					best = h
				}
			}
			if best == 0 {
				best = MaxOutput
			}
			fetchSize, useLimit = best, true
		}

		arrays := make([]array.ArrayImpl, 0, len(it.refs))
		var firstRow, refLen uint32
		haveFirst := false
		liveAny := false

		for i, ref := range it.refs {
			if ref.Kind != IdxRef {
				continue
			}
			colIt := it.iters[i]
			if colIt == nil {
				continue
			}
			first, arr, ok, err := colIt.NextBatch(fetchSize, useLimit)
			if err != nil {
				return nil, err
			}
			if !ok {
				it.iters[i] = nil
				continue
			}
			liveAny = true
			if !haveFirst {
				firstRow, refLen = first, uint32(arr.Len())
				haveFirst = true
			} else if first != firstRow || uint32(arr.Len()) != refLen {
				return nil, fmt.Errorf("rowset: column iterators disagree: (%d,%d) vs (%d,%d)", first, arr.Len(), firstRow, refLen)
			}
			arrays = append(arrays, arr)
		}

		if !liveAny {
			return nil, nil
		}
		if refLen == 0 {
			continue
		}
		return &array.DataChunk{Arrays: arrays}, nil
	}
}
