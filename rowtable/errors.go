package rowtable

import "errors"

// Sentinel errors raised by Transaction, re-exported by the root storage
// package.
var (
	// ErrReadOnlyTxn is returned by Transaction.Append on a read-only
	// transaction.
	ErrReadOnlyTxn = errors.New("rowtable: cannot append chunks in a read only transaction")
	// ErrTxnFinished is returned by Append/Commit on a transaction
	// that has already committed or aborted.
	ErrTxnFinished = errors.New("rowtable: transaction already finished")
	// ErrColumnMismatch is returned when a chunk's arity doesn't match the
	// table's column descriptors.
	ErrColumnMismatch = errors.New("rowtable: chunk does not match column descriptors")
	// ErrBackgroundError is returned by Transaction.Append once the owning
	// table has been marked closed for writes by Table.MarkClosedForWrites
	// (typically via a Logger.Fatalf fatal handler). The wrapped cause is
	// the error that triggered the closure.
	ErrBackgroundError = errors.New("rowtable: table closed for writes after a background error")
)
