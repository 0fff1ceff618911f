package column

import (
	"fmt"

	"github.com/riselite/storage/internal/checksum"
	"github.com/riselite/storage/internal/compression"
	"github.com/riselite/storage/internal/rsblock"
)

// DataSource is the minimal interface a Column needs over its backing
// .col bytes: positional reads. vfs.RandomAccessFile and a plain in-memory
// byte slice (via bytesReaderAt) both satisfy it, so a Column is equally
// at home over an open file handle or bytes still in a builder.
type DataSource interface {
	ReadAt(p []byte, off int64) (int, error)
}

// bytesReaderAt adapts a plain byte slice to DataSource, for the
// in-process path (a just-flushed builder's bytes, or a test fixture)
// that never touches a real file.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(len(b)) {
		return 0, fmt.Errorf("column: read offset %d out of range", off)
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, fmt.Errorf("column: short read at offset %d: got %d, want %d", off, n, len(p))
	}
	return n, nil
}

// BytesDataSource wraps an in-memory column payload as a DataSource.
func BytesDataSource(data []byte) DataSource {
	return bytesReaderAt(data)
}

// Column owns a column's parsed block index plus a handle to the
// underlying (possibly shared) data bytes it indexes. A Column is cheap
// to Clone: the index and the data handle are both shared, never copied.
type Column struct {
	entries []rsblock.IndexEntry
	data    DataSource
	opts    Options
	width   int
}

// New constructs a Column over entries and data, using opts to know the
// checksum algorithm and whether blocks carry a leading compression tag,
// and width (bytes per element) to size LZ4 decompression buffers.
func New(entries []rsblock.IndexEntry, data DataSource, opts Options, width int) *Column {
	return &Column{entries: entries, data: data, opts: opts, width: width}
}

// Clone returns a Column sharing this one's index and data handle.
func (c *Column) Clone() *Column {
	clone := *c
	return &clone
}

// Entries returns the column's block index entries, in block order.
func (c *Column) Entries() []rsblock.IndexEntry {
	return c.entries
}

// NumBlocks returns the number of blocks in the column.
func (c *Column) NumBlocks() int {
	return len(c.entries)
}

// TotalRows returns the column's total row count across all blocks.
func (c *Column) TotalRows() uint32 {
	if len(c.entries) == 0 {
		return 0
	}
	last := c.entries[len(c.entries)-1]
	return last.FirstRowID + last.RowCount
}

// OnDiskSize returns the byte extent of the column's data file: the end
// offset of its last block.
func (c *Column) OnDiskSize() uint64 {
	if len(c.entries) == 0 {
		return 0
	}
	last := c.entries[len(c.entries)-1]
	return last.Offset + last.Length
}

// BlockOfRow returns the index of the block containing rowID.
func (c *Column) BlockOfRow(rowID uint32) int {
	return rsblock.BlockOfRow(c.entries, rowID)
}

// GetBlock reads, verifies, and (when compressed) decompresses block
// blockID, returning its header and fixed-width payload bytes ready for
// an rsblock.Iterator.
func (c *Column) GetBlock(blockID int) (rsblock.Header, []byte, error) {
	e := c.entries[blockID]
	buf := make([]byte, e.Length)
	if _, err := c.data.ReadAt(buf, int64(e.Offset)); err != nil {
		return rsblock.Header{}, nil, fmt.Errorf("column: read block %d: %w", blockID, err)
	}
	if len(buf) < rsblock.HeaderSize {
		return rsblock.Header{}, nil, fmt.Errorf("%w, got %d", rsblock.ErrShortHeader, len(buf))
	}
	header, err := rsblock.DecodeHeader(buf[:rsblock.HeaderSize])
	if err != nil {
		return rsblock.Header{}, nil, err
	}

	rest := buf[rsblock.HeaderSize:]
	tag := compression.None
	if c.opts.Compression != compression.None {
		if len(rest) < 1 {
			return rsblock.Header{}, nil, fmt.Errorf("column: block %d missing compression tag", blockID)
		}
		tag = compression.Type(rest[0])
		rest = rest[1:]
	}

	sum := checksum.Value(header.ChecksumType, rest)
	if sum != header.Checksum {
		return rsblock.Header{}, nil, fmt.Errorf("%w: found %d, expected %d", rsblock.ErrChecksumMismatch, sum, header.Checksum)
	}

	if tag == compression.None {
		return header, rest, nil
	}
	uncompressedSize := int(e.RowCount) * c.width
	payload, err := compression.Decompress(tag, rest, uncompressedSize)
	if err != nil {
		return rsblock.Header{}, nil, fmt.Errorf("column: decompress block %d: %w", blockID, err)
	}
	return header, payload, nil
}
