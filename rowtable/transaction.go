package rowtable

import (
	"fmt"
	goruntime "runtime"

	"github.com/riselite/storage/array"
	"github.com/riselite/storage/internal/logging"
	"github.com/riselite/storage/internal/rowset"
	"github.com/riselite/storage/internal/runtime"
)

// Transaction is a scoped handle onto a Table: a fixed snapshot of its
// row-set list for reads, plus — unless read-only — a pending row-set
// builder that accumulates appended chunks until Commit.
type Transaction struct {
	table    *Table
	rowsets  []*rowset.DiskRowset
	readOnly bool
	finished bool

	builder *rowset.Builder
}

// Rowsets returns the row sets this transaction observes. The slice is
// fixed for the transaction's lifetime regardless of concurrent commits
// by other transactions.
func (tx *Transaction) Rowsets() []*rowset.DiskRowset {
	return tx.rowsets
}

// TotalRows sums the row count across the transaction's snapshot.
func (tx *Transaction) TotalRows() uint32 {
	var total uint32
	for _, rs := range tx.rowsets {
		total += rs.TotalRows()
	}
	return total
}

// scanWorkers bounds how many row sets a Scan opens concurrently when
// LIGHT_PARALLEL=1; row sets rarely number more than a handful per
// table, so there is little point scaling past this.
const scanWorkers = 4

// Scan opens a row-set iterator over every row set in the snapshot for
// the given column references, in row-set order. Exhausting one row
// set's iterator (nil, nil chunk) means advancing to the next. Opening
// an iterator touches the row set's first block, so under
// LIGHT_PARALLEL=1 this fans out across a bounded worker pool instead of
// opening each row set's iterator serially.
func (tx *Transaction) Scan(refs []rowset.ColumnRef) ([]*rowset.Iterator, error) {
	iters := make([]*rowset.Iterator, len(tx.rowsets))
	err := runtime.RunBounded(len(tx.rowsets), scanWorkers, func(i int) error {
		it, err := tx.rowsets[i].Iter(refs, 0)
		if err != nil {
			return fmt.Errorf("rowtable: open iterator over rowset %d: %w", tx.rowsets[i].ID, err)
		}
		iters[i] = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	return iters, nil
}

// Append validates chunk against the table's column descriptors and
// buffers it into this transaction's pending row-set builder, lazily
// creating the builder on first use.
func (tx *Transaction) Append(chunk array.DataChunk) error {
	if tx.finished {
		return ErrTxnFinished
	}
	if tx.readOnly {
		return ErrReadOnlyTxn
	}
	if err := tx.table.BackgroundError(); err != nil {
		return fmt.Errorf("%w: %w", ErrBackgroundError, err)
	}
	if len(chunk.Arrays) != len(tx.table.Columns) {
		return fmt.Errorf("%w: chunk has %d columns, table has %d", ErrColumnMismatch, len(chunk.Arrays), len(tx.table.Columns))
	}
	for i, a := range chunk.Arrays {
		if a.DataType != tx.table.Columns[i].DataType {
			return fmt.Errorf("%w: column %d is %s, chunk array is %s", ErrColumnMismatch, i, tx.table.Columns[i].DataType, a.DataType)
		}
	}
	if tx.builder == nil {
		b, err := rowset.NewBuilder(tx.table.Columns, tx.table.opts, tx.table.fs, tx.table.logger)
		if err != nil {
			return err
		}
		tx.builder = b
	}
	return tx.builder.Append(chunk)
}

// Commit flushes any pending row-set builder to a new row-set directory
// and publishes it to the table's row-set list. A transaction with no
// buffered rows commits as a no-op rather than writing an empty row set.
// Commit is not safe to call twice; a second call returns ErrTxnFinished.
func (tx *Transaction) Commit() error {
	if tx.finished {
		return ErrTxnFinished
	}
	tx.finished = true
	goruntime.SetFinalizer(tx, nil)
	if tx.builder == nil || tx.builder.RowCount() == 0 {
		return nil
	}

	id := tx.table.nextRowsetID.Add(1) - 1
	rs, err := tx.builder.FinishAndFlush(tx.table.rowsetDir(id), id)
	if err != nil {
		return err
	}
	tx.table.publish(rs)
	return nil
}

// Abort discards any buffered writes without publishing them. It is safe
// to call on a read-only transaction or one with nothing buffered.
func (tx *Transaction) Abort() {
	tx.finished = true
	tx.builder = nil
	goruntime.SetFinalizer(tx, nil)
}

// warnUnfinishedTransaction is installed by Table.Read/Write as tx's
// finalizer. A transaction that reaches garbage collection without a
// Commit or Abort call never had its finalizer cleared, so this fires
// and logs a warning rather than letting the drop pass silently — an
// uncommitted write transaction's buffered rows are lost with it, since
// nothing was ever published to the table.
func warnUnfinishedTransaction(tx *Transaction) {
	if tx.finished {
		return
	}
	kind := "read"
	if !tx.readOnly {
		kind = "write"
	}
	tx.table.logger.Warnf(logging.NSTxn+"%s transaction on table %d dropped without Commit or Abort", kind, tx.table.ID)
}
