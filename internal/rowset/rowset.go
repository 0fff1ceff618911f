package rowset

import (
	"fmt"
	"io"
	"strconv"

	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/column"
	"github.com/riselite/storage/internal/rsblock"
	"github.com/riselite/storage/internal/vfs"
)

// DiskRowset is an opened, immutable row set: a directory of column data
// with its index already parsed into memory and its data files held open
// for positional reads.
type DiskRowset struct {
	ID      uint32
	Dir     string
	Columns []array.ColumnDesc

	cols  []*column.Column
	files []vfs.RandomAccessFile
}

// Open reads every column's .idx fully into memory, parses it, and opens
// the sibling .col for positional reads, returning a DiskRowset bound to
// dir.
func Open(dir string, id uint32, columns []array.ColumnDesc, opts column.Options, fs vfs.FS) (*DiskRowset, error) {
	rs := &DiskRowset{
		ID:      id,
		Dir:     dir,
		Columns: columns,
		cols:    make([]*column.Column, len(columns)),
		files:   make([]vfs.RandomAccessFile, len(columns)),
	}

	for i, col := range columns {
		base := dir + "/" + strconv.Itoa(col.ID)

		idxBytes, err := readAll(fs, base+".idx")
		if err != nil {
			return nil, fmt.Errorf("rowset: read %s.idx: %w", base, err)
		}
		entries, err := rsblock.DecodeIndex(idxBytes)
		if err != nil {
			return nil, fmt.Errorf("rowset: decode index %s.idx: %w", base, err)
		}

		file, err := fs.OpenRandomAccess(base + ".col")
		if err != nil {
			return nil, fmt.Errorf("rowset: open %s.col: %w", base, err)
		}

		rs.cols[i] = column.New(entries, file, opts, col.DataType.Width())
		rs.files[i] = file
	}

	return rs, nil
}

func readAll(fs vfs.FS, path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// TotalRows returns the row set's row count, taken from its first column
// (every column of a row set has identical row count, by invariant).
func (rs *DiskRowset) TotalRows() uint32 {
	if len(rs.cols) == 0 {
		return 0
	}
	return rs.cols[0].TotalRows()
}

// Column returns the opened Column handle for column index i.
func (rs *DiskRowset) Column(i int) *column.Column {
	return rs.cols[i]
}

// Close releases the row set's open file handles.
func (rs *DiskRowset) Close() error {
	var firstErr error
	for _, f := range rs.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Iter constructs a RowSetIterator over this row set, pulling the column
// references in refs starting at row id seekPos.
func (rs *DiskRowset) Iter(refs []ColumnRef, seekPos uint32) (*Iterator, error) {
	return newIterator(rs, refs, seekPos)
}

// AllChunks decodes the entire row set as a single DataChunk — a
// development affordance for small scans and tests; production reads
// should use Iter.
func (rs *DiskRowset) AllChunks() (array.DataChunk, error) {
	refs := make([]ColumnRef, len(rs.Columns))
	for i := range refs {
		refs[i] = Idx(i)
	}
	it, err := rs.Iter(refs, 0)
	if err != nil {
		return array.DataChunk{}, err
	}
	total := rs.TotalRows()
	if total == 0 {
		return array.DataChunk{}, nil
	}
	chunk, err := it.NextBatch(int(total), true)
	if err != nil {
		return array.DataChunk{}, err
	}
	if chunk == nil {
		return array.DataChunk{}, nil
	}
	return *chunk, nil
}
