// Package rowset implements the row-set builder, the on-disk DiskRowset
// reader, and the row-set iterator that aligns per-column streams into
// multi-column chunks: a row set is a directory of one .col/.idx pair per
// column, representing an immutable, append-only unit of a table's data.
package rowset

// RefKind distinguishes a concrete column reference from the synthetic
// row-handler placeholder slot a row-set iterator must accept but does
// not yet populate.
type RefKind int

const (
	// IdxRef designates a concrete column by its index into the row
	// set's column list.
	IdxRef RefKind = iota
	// RowHandlerRef designates a synthetic column whose value would be a
	// locator for the row; this version never populates it, but an
	// iterator must still accept its slot and skip it when assembling
	// chunks.
	RowHandlerRef
)

// ColumnRef is one slot of a row-set iterator's requested column list.
type ColumnRef struct {
	Kind RefKind
	// Index is the position of the referenced column within the row
	// set's catalogued column list. Meaningful only when Kind == IdxRef.
	Index int
}

// Idx returns a ColumnRef selecting the column at position i.
func Idx(i int) ColumnRef {
	return ColumnRef{Kind: IdxRef, Index: i}
}

// RowHandler returns a ColumnRef for the synthetic row-locator slot.
func RowHandler() ColumnRef {
	return ColumnRef{Kind: RowHandlerRef}
}
