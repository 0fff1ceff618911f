package rowset

import "errors"

// Sentinel errors raised while building, opening, or iterating a row set,
// re-exported by the root storage package.
var (
	// ErrEmptyRowset is returned by RowSetBuilder.FinishAndFlush when no
	// rows were ever appended: an empty row set is illegal, since it
	// would otherwise leave a table with zero-length column files on
	// disk (see DESIGN.md).
	ErrEmptyRowset = errors.New("rowset: empty rowset builder")
	// ErrMultipleRowHandlers is returned when a row-set iterator is
	// constructed with more than one RowHandler column reference.
	ErrMultipleRowHandlers = errors.New("rowset: at most one RowHandler column reference is allowed")
	// ErrNoIdxColumns is returned when a row-set iterator is constructed
	// with no Idx column references at all.
	ErrNoIdxColumns = errors.New("rowset: at least one Idx column reference is required")
)
