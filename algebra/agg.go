package algebra

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================================
// AGGREGATES
// ============================================================================
// Null cells are skipped. sum() over nothing is 0; min, max and mean over
// nothing are null, matching dataframe conventions. min and max also accept
// all-string columns and order them lexicographically.

func aggSum(name string, vals []any) (any, error) {
	total := decimal.Zero
	for _, v := range vals {
		if v == nil {
			continue
		}
		d, ok := toDecimal(v)
		if !ok {
			return nil, fmt.Errorf("exec: sum() over column %q found %s", name, typeName(v))
		}
		total = total.Add(d)
	}
	return exportCell(total), nil
}

func aggMean(name string, vals []any) (any, error) {
	total := decimal.Zero
	n := 0
	for _, v := range vals {
		if v == nil {
			continue
		}
		d, ok := toDecimal(v)
		if !ok {
			return nil, fmt.Errorf("exec: mean() over column %q found %s", name, typeName(v))
		}
		total = total.Add(d)
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return exportCell(total.Div(decimal.NewFromInt(int64(n)))), nil
}

func aggMin(name string, vals []any) (any, error) {
	return aggExtreme(name, "min", vals, func(cmp int) bool { return cmp < 0 })
}

func aggMax(name string, vals []any) (any, error) {
	return aggExtreme(name, "max", vals, func(cmp int) bool { return cmp > 0 })
}

func aggExtreme(name, fn string, vals []any, better func(cmp int) bool) (any, error) {
	var bestNum decimal.Decimal
	var bestStr string
	kind := "" // "", "number" or "string": set by the first non-null cell
	for _, v := range vals {
		if v == nil {
			continue
		}
		if d, ok := toDecimal(v); ok {
			switch kind {
			case "":
				kind, bestNum = "number", d
			case "number":
				if better(d.Cmp(bestNum)) {
					bestNum = d
				}
			default:
				return nil, fmt.Errorf("exec: %s() over column %q mixes strings and numbers", fn, name)
			}
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("exec: %s() over column %q found %s", fn, name, typeName(v))
		}
		switch kind {
		case "":
			kind, bestStr = "string", s
		case "string":
			if better(strings.Compare(s, bestStr)) {
				bestStr = s
			}
		default:
			return nil, fmt.Errorf("exec: %s() over column %q mixes strings and numbers", fn, name)
		}
	}
	switch kind {
	case "number":
		return exportCell(bestNum), nil
	case "string":
		return bestStr, nil
	default:
		return nil, nil
	}
}

func aggCount(vals []any) any {
	n := 0
	for _, v := range vals {
		if v != nil {
			n++
		}
	}
	return float64(n)
}
