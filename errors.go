package storage

import (
	"errors"

	"github.com/riselite/storage/internal/column"
	"github.com/riselite/storage/internal/rowset"
	"github.com/riselite/storage/internal/rsblock"
	"github.com/riselite/storage/rowtable"
)

// Sentinel errors returned by the storage engine. Callers should compare
// with errors.Is rather than string matching; a cause (an I/O error, a
// parse error) is frequently wrapped alongside the sentinel with
// fmt.Errorf("...: %w", ...).
var (
	// ErrTableNotFound is returned when looking up a table id that has not
	// been created in this storage root.
	ErrTableNotFound = errors.New("storage: table not found")
	// ErrTableExists is returned by CreateTable when the table id is
	// already registered.
	ErrTableExists = errors.New("storage: table already exists")
	// ErrNullableUnsupported is returned when a column builder is asked to
	// encode a nullable column; nullable encodings are reserved for future
	// work. It aliases internal/column's sentinel so errors.Is works
	// regardless of which package a caller compares against.
	ErrNullableUnsupported = column.ErrNullableUnsupported
	// ErrUnsupportedType is returned when an encoder or builder is handed
	// an array of a data type it doesn't know how to encode.
	ErrUnsupportedType = column.ErrUnsupportedType
	// ErrChecksumMismatch is returned when a block's or column index's
	// stored checksum doesn't match the bytes actually read. It is an
	// alias of the sentinel the decoder in internal/rsblock actually
	// returns, so errors.Is works whether the caller imports this package
	// or the lower one.
	ErrChecksumMismatch = rsblock.ErrChecksumMismatch
	// ErrInvalidMagic is returned when a column index footer's magic
	// number doesn't match the expected constant.
	ErrInvalidMagic = rsblock.ErrInvalidMagic
	// ErrReadOnlyTxn is returned by Transaction.Append on a read-only
	// transaction.
	ErrReadOnlyTxn = rowtable.ErrReadOnlyTxn
	// ErrTxnFinished is returned by Append/Commit on a transaction
	// that has already committed or aborted.
	ErrTxnFinished = rowtable.ErrTxnFinished
	// ErrEmptyRowset is returned by RowSetBuilder.FinishAndFlush when no
	// rows were ever appended; empty row sets are illegal (see DESIGN.md).
	ErrEmptyRowset = rowset.ErrEmptyRowset
	// ErrColumnMismatch is returned when a DataChunk's arity or per-column
	// data types don't match a table's column descriptors.
	ErrColumnMismatch = rowtable.ErrColumnMismatch
	// ErrBackgroundError is returned by Transaction.Append once a fatal
	// condition (surfaced through the configured Logger's FatalHandler)
	// has closed the owning table for writes.
	ErrBackgroundError = rowtable.ErrBackgroundError
)
