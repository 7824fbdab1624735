package dataset

// ============================================================================
// FRAME — Zero-Copy Tabular Access Interface
// ============================================================================
// The engine never copies listing data while a query runs. Every pipeline
// stage reads through this interface.
//
// Implementations:
//   Table     — owns column-major cells (loaded datasets, materialized results)
//   RowsView  — row subset/permutation (indices into parent, zero-copy)
//   ColsView  — column subset (names into parent, zero-copy)
//
// Filter, sort and head produce views; Materialize collapses a view chain
// into a concrete Table once, at the end of execution.
// ============================================================================

// Frame provides indexed access to a table.
// Cell is called in tight loops — keep implementations fast.
type Frame interface {
	Len() int
	Columns() []string
	Cell(row int, col string) any
}

// ============================================================================
// TABLE — column-major owner
// ============================================================================

// Table is the concrete frame: ordered column names, column-major cells.
// A loaded dataset is a Table and is never mutated after load; a zero-row
// Table is the empty-dataset sentinel that short-circuits the pipeline.
type Table struct {
	names []string
	cols  map[string][]any
	rows  int
}

// NewTable creates an empty table with the given column order.
func NewTable(names []string) *Table {
	t := &Table{names: append([]string(nil), names...), cols: make(map[string][]any, len(names))}
	for _, n := range t.names {
		t.cols[n] = nil
	}
	return t
}

// FromRows builds a table from row maps, preserving the given column order.
// Cells absent from a row are stored as nil.
func FromRows(names []string, rows []map[string]any) *Table {
	t := NewTable(names)
	for _, r := range rows {
		t.AppendRow(r)
	}
	return t
}

// AppendRow adds one row; keys not in the column set are ignored.
// Loaders call this during construction, nothing mutates a table afterwards.
func (t *Table) AppendRow(cells map[string]any) {
	for _, n := range t.names {
		v, ok := cells[n]
		if !ok {
			v = nil
		}
		t.cols[n] = append(t.cols[n], v)
	}
	t.rows++
}

func (t *Table) Len() int { return t.rows }

func (t *Table) Columns() []string { return t.names }

func (t *Table) Cell(i int, col string) any {
	c, ok := t.cols[col]
	if !ok || i < 0 || i >= len(c) {
		return nil
	}
	return c[i]
}

// Has reports whether the table carries the named column.
func (t *Table) Has(col string) bool {
	_, ok := t.cols[col]
	return ok
}

// Row returns one row as a column→value map.
func (t *Table) Row(i int) map[string]any {
	r := make(map[string]any, len(t.names))
	for _, n := range t.names {
		r[n] = t.Cell(i, n)
	}
	return r
}

// ============================================================================
// ROWS VIEW — row subset/permutation (zero-copy)
// ============================================================================

// RowsView exposes a subset or reordering of a parent frame's rows.
// Holds indices into the parent — no data copy.
type RowsView struct {
	parent  Frame
	indices []int
}

// NewRowsView creates a row-subset view. Indices outside the parent read as nil.
func NewRowsView(parent Frame, indices []int) Frame {
	return &RowsView{parent: parent, indices: indices}
}

func (v *RowsView) Len() int { return len(v.indices) }

func (v *RowsView) Columns() []string { return v.parent.Columns() }

func (v *RowsView) Cell(i int, col string) any {
	if i < 0 || i >= len(v.indices) {
		return nil
	}
	return v.parent.Cell(v.indices[i], col)
}

// ============================================================================
// COLS VIEW — column subset (zero-copy)
// ============================================================================

// ColsView narrows a parent frame to a subset of its columns.
type ColsView struct {
	parent Frame
	names  []string
}

// NewColsView creates a column-subset view. Unknown names read as nil.
func NewColsView(parent Frame, names []string) Frame {
	return &ColsView{parent: parent, names: append([]string(nil), names...)}
}

func (v *ColsView) Len() int { return v.parent.Len() }

func (v *ColsView) Columns() []string { return v.names }

func (v *ColsView) Cell(i int, col string) any {
	for _, n := range v.names {
		if n == col {
			return v.parent.Cell(i, col)
		}
	}
	return nil
}

// ============================================================================
// MATERIALIZE — collapse a view chain into a concrete Table
// ============================================================================

// Materialize copies a frame into a fresh Table. The one deliberate copy in
// the pipeline: deferred views stay cheap until the final result is fixed.
func Materialize(f Frame) *Table {
	if t, ok := f.(*Table); ok {
		return t
	}
	names := f.Columns()
	t := NewTable(names)
	for i := 0; i < f.Len(); i++ {
		row := make(map[string]any, len(names))
		for _, n := range names {
			row[n] = f.Cell(i, n)
		}
		t.AppendRow(row)
	}
	return t
}
