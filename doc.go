/*
Package storage provides a columnar on-disk storage engine for a small
analytical database: fixed-width primitive columns, organized into
immutable, append-only row sets, with a block-based on-disk layout
inspired by SST-style block tables.

A DiskStorage root owns any number of tables, each identified by an integer id. A
table is an ordered, append-only list of row sets; a row set is a directory
of per-column block files plus their block indexes. Rows are never updated
or deleted in place: a table evolves only by appending new row sets.

# Usage

The tests in storage_test.go exercise the public API end to end: creating a
table, writing and committing a chunk, and scanning it back.

# Concurrency

A DiskStorage instance is safe for concurrent use by multiple goroutines.
Individual row-set iterators (as returned by Transaction.Scan) are not safe for concurrent use; each
goroutine should use its own iterator.

# On-disk format

Columns are stored as sequences of size-bounded blocks (one primitive type per
column: Int32, Float64, or Bool), each covered by a checksum, followed by a
column index recording each block's offset, length, first row id, and row
count. See internal/rsblock and internal/column for the encoding details.
*/
package storage
