package dataset

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// ============================================================================
// SAMPLER — compact textual preview of a table
// ============================================================================
// The generator has never seen the dataset. The sampler renders a head
// preview — shape line plus the first rows as an ASCII table — that gets
// embedded in the prompt so the model grounds column names and value
// shapes on real data.
// ============================================================================

// DefaultSampleRows is the preview depth when the caller passes n <= 0.
const DefaultSampleRows = 5

// cells longer than this are cut so one verbose listing cannot flood the prompt
const maxSampleCell = 40

// Sample renders a head preview of the frame: a shape line followed by up
// to n rows in plain ASCII. Pure — no side effects, safe on empty frames.
func Sample(f Frame, n int) string {
	if n <= 0 {
		n = DefaultSampleRows
	}
	cols := f.Columns()

	w := table.NewWriter()
	// the generator writes col('...') against these exact spellings
	w.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	w.AppendHeader(header)

	limit := f.Len()
	if limit > n {
		limit = n
	}
	for i := 0; i < limit; i++ {
		row := make(table.Row, len(cols))
		for j, c := range cols {
			row[j] = sampleCell(f.Cell(i, c))
		}
		w.AppendRow(row)
	}

	return fmt.Sprintf("shape: (%d, %d)\n%s", f.Len(), len(cols), w.Render())
}

// sampleCell renders one preview cell: null spelled out, integral floats
// shown as integers, long text cut.
func sampleCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return cut(x, maxSampleCell)
	default:
		return cut(fmt.Sprint(x), maxSampleCell)
	}
}

// cut shortens s to max runes, appending … when trimmed.
func cut(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
