package engine

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tillerhq/tiller/dataset"
	"github.com/tillerhq/tiller/schema"
)

// ============================================================================
// RESULT FORMATTER — result table → display cells
// ============================================================================
// Formatting is presentation only and always runs after execution: the
// result table keeps raw values, the formatter decides how a terminal or
// API consumer sees them. Price-like columns collapse into compact euro
// figures, year-like columns print as plain integers, nulls become N/A.
// ============================================================================

// MaxDisplayRows caps how many rows any rendering shows. The cap binds the
// display, never the computation — Search still returns every matching id.
const MaxDisplayRows = 20

var (
	titleCaser  = cases.Title(language.Und)
	euroPrinter = message.NewPrinter(language.English)
)

// FormatRows renders up to MaxDisplayRows rows of f restricted to the
// display columns, one []string per row in display order.
func FormatRows(f dataset.Frame, display []string, aliases schema.Config) [][]string {
	if len(display) == 0 {
		return nil
	}
	n := f.Len()
	if n > MaxDisplayRows {
		n = MaxDisplayRows
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(display))
		for j, col := range display {
			role, _ := aliases.RoleOf(col)
			row[j] = FormatCell(f.Cell(i, col), role)
		}
		rows = append(rows, row)
	}
	return rows
}

// Labels turns column names into display headers: separators become spaces,
// words are title-cased.
func Labels(display []string) []string {
	labels := make([]string, len(display))
	for i, col := range display {
		labels[i] = Label(col)
	}
	return labels
}

var labelSeparators = strings.NewReplacer("_", " ", "-", " ", ".", " ")

// Label formats a single column header.
func Label(col string) string {
	return titleCaser.String(labelSeparators.Replace(col))
}

// FormatCell renders one cell for display. The role steers numeric
// presentation; a zero role means no special treatment.
func FormatCell(v any, role schema.Role) string {
	if v == nil {
		return "N/A"
	}
	switch n := v.(type) {
	case float64:
		return formatNumber(n, role)
	case float32:
		return formatNumber(float64(n), role)
	case int:
		return formatNumber(float64(n), role)
	case int64:
		return formatNumber(float64(n), role)
	case string:
		return n
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatNumber(f float64, role schema.Role) string {
	switch role {
	case schema.RolePrice:
		return formatPrice(f)
	case schema.RoleYear:
		if isIntegral(f) {
			return strconv.Itoa(int(f))
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		if isIntegral(f) {
			return strconv.FormatFloat(f, 'f', 0, 64)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// formatPrice compacts euro amounts: millions to one decimal, thousands to
// none, anything smaller grouped in full.
func formatPrice(f float64) string {
	switch {
	case f >= 1e6:
		return fmt.Sprintf("€%.1fM", f/1e6)
	case f >= 1e3:
		return fmt.Sprintf("€%.0fK", f/1e3)
	default:
		return euroPrinter.Sprintf("€%.0f", f)
	}
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e15
}
