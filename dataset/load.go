package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================================
// LOADERS — array-of-flat-records sources → Table
// ============================================================================
// The host reads listing exports from wherever they live (file, object
// store). These loaders convert the raw bytes into a Table. Column order
// follows the source: first-seen key order for JSON, header order for CSV.
// Column spellings are preserved verbatim — alias groups match literal
// names, including localized ones like "Nome della barca".
// ============================================================================

// Load reads a listings file and dispatches on its extension.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(data)
	case ".csv":
		return LoadCSV(data)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q (want .json or .csv)", filepath.Ext(path))
	}
}

// LoadJSON parses a JSON array of flat records into a Table.
// An empty array yields a zero-row Table — the empty-dataset sentinel.
func LoadJSON(data []byte) (*Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse listings JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("listings JSON must be an array of records, got %v", tok)
	}

	var names []string
	seen := make(map[string]bool)
	var rows []map[string]any

	for dec.More() {
		row, order, err := decodeRecord(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse listings JSON: %w", err)
		}
		for _, k := range order {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil { // closing ]
		return nil, fmt.Errorf("failed to parse listings JSON: %w", err)
	}

	return FromRows(names, rows), nil
}

// decodeRecord consumes one object, keeping its key order.
// Token-level decoding because encoding/json maps drop ordering.
func decodeRecord(dec *json.Decoder) (map[string]any, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected record object, got %v", tok)
	}

	row := make(map[string]any)
	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected record key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, nil, err
		}
		row[key] = v
		order = append(order, key)
	}
	if _, err := dec.Token(); err != nil { // closing }
		return nil, nil, err
	}
	return row, order, nil
}
