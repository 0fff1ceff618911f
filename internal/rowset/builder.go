package rowset

import (
	"fmt"
	"strconv"

	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/column"
	"github.com/riselite/storage/internal/logging"
	"github.com/riselite/storage/internal/rsblock"
	"github.com/riselite/storage/internal/vfs"
)

// Builder accumulates DataChunks into one ColumnBuilderImpl per column,
// to be flushed as a new immutable row-set directory.
type Builder struct {
	columns  []array.ColumnDesc
	opts     column.Options
	builders []*column.BuilderImpl
	rowCount int
	fs       vfs.FS
	logger   logging.Logger
}

// NewBuilder constructs a Builder for a table with the given column
// descriptors and block-building options.
func NewBuilder(columns []array.ColumnDesc, opts column.Options, fs vfs.FS, logger logging.Logger) (*Builder, error) {
	logger = logging.OrDefault(logger)
	builders := make([]*column.BuilderImpl, len(columns))
	for i, col := range columns {
		b, err := column.NewBuilderImpl(col.DataType, col.Nullable, opts)
		if err != nil {
			return nil, fmt.Errorf("rowset: column %q: %w", col.Name, err)
		}
		builders[i] = b
	}
	return &Builder{columns: columns, opts: opts, builders: builders, fs: fs, logger: logger}, nil
}

// Append dispatches chunk's arrays to the matching per-column builders in
// order. Arity must match the table's column descriptors; a mismatch is a
// programmer error in the caller.
func (b *Builder) Append(chunk array.DataChunk) error {
	if len(chunk.Arrays) != len(b.builders) {
		return fmt.Errorf("rowset: chunk has %d columns, table has %d", len(chunk.Arrays), len(b.builders))
	}
	for i, a := range chunk.Arrays {
		if err := b.builders[i].Append(a); err != nil {
			return fmt.Errorf("rowset: column %q: %w", b.columns[i].Name, err)
		}
	}
	b.rowCount += chunk.Cardinality()
	return nil
}

// RowCount returns the number of rows appended so far.
func (b *Builder) RowCount() int {
	return b.rowCount
}

// FinishAndFlush finishes every column builder and writes the resulting
// <col_id>.col/<col_id>.idx pairs to dir, then opens and returns the
// freshly written directory as a DiskRowset with the given id.
//
// File write protocol: create the file through fs.Create, write its whole
// contents in one Write call, fsync the file, then — once every column's
// files are written — fsync the containing directory so the new directory
// entries are durable too. Files are not created exclusively: fs.Create
// truncates an existing file of the same name, and no buffered writer is
// used.
func (b *Builder) FinishAndFlush(dir string, id uint32) (*DiskRowset, error) {
	if b.rowCount == 0 {
		return nil, ErrEmptyRowset
	}
	if err := b.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("rowset: mkdir %s: %w", dir, err)
	}

	for i, col := range b.columns {
		entries, data := b.builders[i].Finish()
		base := dir + "/" + strconv.Itoa(col.ID)

		if err := writeFileSynced(b.fs, base+".col", data); err != nil {
			return nil, fmt.Errorf("rowset: write %s.col: %w", base, err)
		}
		idxBytes := rsblock.EncodeIndex(entries, b.opts.ChecksumType)
		if err := writeFileSynced(b.fs, base+".idx", idxBytes); err != nil {
			return nil, fmt.Errorf("rowset: write %s.idx: %w", base, err)
		}
	}
	if err := b.fs.SyncDir(dir); err != nil {
		return nil, fmt.Errorf("rowset: sync dir %s: %w", dir, err)
	}

	b.logger.Infof(logging.NSRowset+"flushed rowset %d to %s (%d rows)", id, dir, b.rowCount)
	return Open(dir, id, b.columns, b.opts, b.fs)
}

func writeFileSynced(fs vfs.FS, path string, data []byte) error {
	f, err := fs.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
