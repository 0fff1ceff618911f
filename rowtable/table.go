// Package rowtable implements a single table's row-set list and the
// transaction handles used to read and write it: an ordered, append-only
// sequence of immutable row sets, protected by a reader/writer lock so
// readers never block a commit and never observe a partially published
// row set.
package rowtable

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/column"
	"github.com/riselite/storage/internal/logging"
	"github.com/riselite/storage/internal/rowset"
	"github.com/riselite/storage/internal/vfs"
)

// Table owns one table's ordered row-set list plus the row-set id
// generator used to name new row-set directories under its base path.
type Table struct {
	ID       int
	Columns  []array.ColumnDesc
	basePath string
	opts     column.Options
	fs       vfs.FS
	logger   logging.Logger

	mu      sync.RWMutex
	rowsets []*rowset.DiskRowset

	nextRowsetID atomic.Uint32

	// backgroundErr is a sticky fatal error recorded by MarkClosedForWrites
	// (typically via a Logger.Fatalf → FatalHandler chain). Once set, every
	// subsequent Transaction.Append against this table fails; existing read
	// snapshots remain usable. First error wins.
	backgroundErr atomic.Pointer[error]
}

// MarkClosedForWrites records err as the table's sticky background error,
// unless one is already set. Wired as a storage-level Logger.FatalHandler
// so that a fatal condition closes the table for writes rather than
// silently continuing to accept appends.
func (t *Table) MarkClosedForWrites(err error) {
	t.backgroundErr.CompareAndSwap(nil, &err)
}

// BackgroundError returns the table's sticky background error, if any.
func (t *Table) BackgroundError() error {
	if p := t.backgroundErr.Load(); p != nil {
		return *p
	}
	return nil
}

// New constructs an empty Table rooted at basePath. basePath is expected
// to already exist; row-set directories are created under it lazily, one
// per commit.
func New(id int, columns []array.ColumnDesc, basePath string, opts column.Options, fs vfs.FS, logger logging.Logger) *Table {
	return &Table{
		ID:       id,
		Columns:  columns,
		basePath: basePath,
		opts:     opts,
		fs:       fs,
		logger:   logging.OrDefault(logger),
	}
}

// Open reconstructs a Table from a base path already containing
// previously flushed row-set directories, named by their numeric id.
func Open(id int, columns []array.ColumnDesc, basePath string, opts column.Options, fs vfs.FS, logger logging.Logger, rowsetIDs []uint32) (*Table, error) {
	t := New(id, columns, basePath, opts, fs, logger)
	var maxID uint32
	for _, rsID := range rowsetIDs {
		rs, err := rowset.Open(t.rowsetDir(rsID), rsID, columns, opts, fs)
		if err != nil {
			return nil, fmt.Errorf("rowtable: open rowset %d: %w", rsID, err)
		}
		t.rowsets = append(t.rowsets, rs)
		if rsID >= maxID {
			maxID = rsID + 1
		}
	}
	t.nextRowsetID.Store(maxID)
	return t, nil
}

func (t *Table) rowsetDir(id uint32) string {
	return fmt.Sprintf("%s/%d", t.basePath, id)
}

// snapshot returns a copy of the table's current row-set list under a
// read lock, safe for a transaction to hold without further
// synchronization: the table may append to its own slice concurrently,
// but never mutates an entry a snapshot already captured.
func (t *Table) snapshot() []*rowset.DiskRowset {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*rowset.DiskRowset, len(t.rowsets))
	copy(out, t.rowsets)
	return out
}

// publish appends rs to the table's row-set list under a write lock. A
// reader that snapshotted before this call never observes rs; one that
// snapshots after always does — there is no window in which a reader
// could see a partially initialized row set.
func (t *Table) publish(rs *rowset.DiskRowset) {
	t.mu.Lock()
	t.rowsets = append(t.rowsets, rs)
	t.mu.Unlock()
}

// RowsetCount returns the number of row sets currently published.
func (t *Table) RowsetCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rowsets)
}

// TotalRows sums TotalRows across every published row set. It takes the
// read lock only to copy the row-set list; per-rowset reads happen
// outside the lock.
func (t *Table) TotalRows() uint64 {
	var total uint64
	for _, rs := range t.snapshot() {
		total += uint64(rs.TotalRows())
	}
	return total
}

// Read begins a read-only transaction over the table's current row-set
// list. The snapshot is fixed at this call: row sets committed afterward
// are invisible to it, matching the engine's snapshot-isolated read
// semantics.
//
// A finalizer is installed so that a transaction dropped without Commit
// or Abort logs a warning instead of vanishing silently (see §7).
func (t *Table) Read() *Transaction {
	tx := &Transaction{table: t, rowsets: t.snapshot(), readOnly: true}
	runtime.SetFinalizer(tx, warnUnfinishedTransaction)
	return tx
}

// Write begins a read-write transaction. Reads against it observe the
// same fixed snapshot as Read; appended chunks accumulate in memory until
// Commit flushes them as one new row set.
//
// A finalizer is installed so that a transaction dropped without Commit
// or Abort logs a warning instead of vanishing silently (see §7).
func (t *Table) Write() *Transaction {
	tx := &Transaction{table: t, rowsets: t.snapshot(), readOnly: false}
	runtime.SetFinalizer(tx, warnUnfinishedTransaction)
	return tx
}
