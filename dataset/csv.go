package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadCSV parses CSV bytes into a Table. Header spellings are kept
// verbatim (only trimmed); numeric-looking cells become float64, empty
// cells become nil, everything else stays text.
func LoadCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return NewTable(nil), nil
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	names := make([]string, len(headers))
	for i, h := range headers {
		names[i] = strings.TrimSpace(h)
	}

	t := NewTable(names)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}

		cells := make(map[string]any, len(names))
		for i, val := range row {
			if i >= len(names) {
				break
			}
			cells[names[i]] = coerceCell(strings.TrimSpace(val))
		}
		t.AppendRow(cells)
	}

	return t, nil
}

// coerceCell maps raw CSV text onto the cell model shared with JSON
// records: nil for empty, float64 for numbers, string otherwise.
func coerceCell(val string) any {
	if val == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return val
}
