package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"

	"github.com/tillerhq/tiller/engine"
	"github.com/tillerhq/tiller/helpers"
	"github.com/tillerhq/tiller/schema"
)

// renderAnswer prints one answer: the expression that ran, the display
// table, and a row count. Results without a display plan — aggregates,
// bare column pulls — fall back to showing every result column.
func renderAnswer(w io.Writer, ans *engine.Answer, aliases schema.Config) {
	if ans.Expression != "" {
		fmt.Fprintf(w, "expression: %s\n", paint(ans.Expression, "14"))
	}

	labels, rows := ans.Labels, ans.Rows
	if len(labels) == 0 && len(ans.Result.Columns()) > 0 {
		cols := ans.Result.Columns()
		labels = engine.Labels(cols)
		rows = engine.FormatRows(ans.Result, cols, aliases)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	// labels arrive already title-cased
	t.Style().Format.Header = text.FormatDefault

	header := make(table.Row, len(labels))
	for i, l := range labels {
		header[i] = l
	}
	t.AppendHeader(header)
	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()

	if total := ans.Result.Len(); total > len(rows) {
		fmt.Fprintf(w, "(showing first %d of %d rows)\n", len(rows), total)
	} else {
		fmt.Fprintf(w, "(%d rows)\n", total)
	}
}

// printRoles shows which concrete column each semantic role resolved to.
func printRoles(w io.Writer, aliases schema.Config, cols []string) {
	binding := schema.Bind(aliases, cols)

	fmt.Fprintln(w, "roles:")
	for _, role := range binding.Roles() {
		col, _ := binding.Column(role)
		fmt.Fprintf(w, "  %-10s → %s\n", role, col)
	}
	if unmatched := schema.Unmatched(aliases, cols); len(unmatched) > 0 {
		fmt.Fprintf(w, "other columns: %s\n", strings.Join(unmatched, ", "))
	}
}

// highlightNumbers marks every numeric token in the query so the numbers
// the user may want to tweak stand out.
func highlightNumbers(query string) string {
	profile := termenv.ColorProfile()
	if profile == termenv.Ascii {
		return query
	}
	mark := termenv.CSI + profile.Color("11").Sequence(false) + "m"
	reset := termenv.CSI + termenv.ResetSeq + "m"
	return helpers.Highlight(query, mark, reset)
}

// paint colors text when the terminal supports it.
func paint(s, color string) string {
	profile := termenv.ColorProfile()
	if profile == termenv.Ascii {
		return s
	}
	return termenv.String(s).Foreground(profile.Color(color)).String()
}
