package algebra

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ============================================================================
// VALUES
// ============================================================================
// Evaluation produces one of four kinds of value:
//
//	dataset.Frame  — a table (base data, or a filtered/narrowed view of it)
//	*Series        — one named column of cells
//	scalar         — nil, bool, string or decimal.Decimal
//	namespace      — the q helper object; only its col/lit members exist
//
// Numbers are decimals internally so that 449999.99 < 450000 holds exactly;
// they are converted back to float64 at the evaluation boundary.
// ============================================================================

// Series is a single named column of values. Cells may be nil (null).
type Series struct {
	Name   string
	Values []any
}

// Len returns the number of cells in the series.
func (s *Series) Len() int { return len(s.Values) }

// namespace is the value of the bare identifier q.
type namespace struct{}

// ============================================================================
// THREE-VALUED LOGIC
// ============================================================================
// Comparisons against null yield null, and null must flow through & | ~ the
// way SQL and dataframe engines handle it: unknown AND false is false,
// unknown OR true is true, everything else stays unknown.

type truth int

const (
	truthUnknown truth = iota
	truthFalse
	truthTrue
)

func truthOf(v any) (truth, error) {
	switch tv := v.(type) {
	case nil:
		return truthUnknown, nil
	case bool:
		if tv {
			return truthTrue, nil
		}
		return truthFalse, nil
	default:
		return truthUnknown, fmt.Errorf("exec: expected a boolean, found %s", typeName(v))
	}
}

func truthAnd(a, b truth) truth {
	if a == truthFalse || b == truthFalse {
		return truthFalse
	}
	if a == truthTrue && b == truthTrue {
		return truthTrue
	}
	return truthUnknown
}

func truthOr(a, b truth) truth {
	if a == truthTrue || b == truthTrue {
		return truthTrue
	}
	if a == truthFalse && b == truthFalse {
		return truthFalse
	}
	return truthUnknown
}

func truthNot(a truth) truth {
	switch a {
	case truthTrue:
		return truthFalse
	case truthFalse:
		return truthTrue
	default:
		return truthUnknown
	}
}

func truthCell(t truth) any {
	switch t {
	case truthTrue:
		return true
	case truthFalse:
		return false
	default:
		return nil
	}
}

// ============================================================================
// CONVERSIONS
// ============================================================================

func toDecimal(v any) (decimal.Decimal, bool) {
	switch tv := v.(type) {
	case decimal.Decimal:
		return tv, true
	case float64:
		return decimal.NewFromFloat(tv), true
	case float32:
		return decimal.NewFromFloat32(tv), true
	case int:
		return decimal.NewFromInt(int64(tv)), true
	case int64:
		return decimal.NewFromInt(tv), true
	default:
		return decimal.Decimal{}, false
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case string:
		return "a string"
	case decimal.Decimal, float64, float32, int, int64:
		return "a number"
	case []any:
		return "a list"
	case *Series:
		return "a series"
	case namespace:
		return "a namespace"
	default:
		return "a table"
	}
}

// exportCell converts internal decimals back to float64 for callers.
func exportCell(v any) any {
	if d, ok := v.(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return v
}

// ============================================================================
// SCALAR OPERATORS
// ============================================================================

// compareValues applies op to two scalar cells. Null operands yield null.
func compareValues(op CompareOp, l, r any) (any, error) {
	if l == nil || r == nil {
		return nil, nil
	}
	if ld, ok := toDecimal(l); ok {
		rd, ok := toDecimal(r)
		if !ok {
			return nil, fmt.Errorf("exec: cannot compare a number with %s", typeName(r))
		}
		return orderResult(op, ld.Cmp(rd))
	}
	switch lv := l.(type) {
	case string:
		rv, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("exec: cannot compare a string with %s", typeName(r))
		}
		return orderResult(op, strings.Compare(lv, rv))
	case bool:
		rv, ok := r.(bool)
		if !ok {
			return nil, fmt.Errorf("exec: cannot compare a boolean with %s", typeName(r))
		}
		switch op {
		case CompareEq:
			return lv == rv, nil
		case CompareNotEq:
			return lv != rv, nil
		default:
			return nil, fmt.Errorf("exec: booleans have no ordering")
		}
	default:
		return nil, fmt.Errorf("exec: cannot compare %s with %s", typeName(l), typeName(r))
	}
}

func orderResult(op CompareOp, cmp int) (any, error) {
	switch op {
	case CompareEq:
		return cmp == 0, nil
	case CompareNotEq:
		return cmp != 0, nil
	case CompareLess:
		return cmp < 0, nil
	case CompareLessEq:
		return cmp <= 0, nil
	case CompareGreater:
		return cmp > 0, nil
	case CompareGreaterEq:
		return cmp >= 0, nil
	default:
		return nil, fmt.Errorf("exec: unknown comparison %q", op)
	}
}

// arithValues applies op to two scalar cells. Null operands yield null.
// Strings support + as concatenation; everything else is numeric.
func arithValues(op ArithOp, l, r any) (any, error) {
	if l == nil || r == nil {
		return nil, nil
	}
	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		if ok && op == ArithAdd {
			return ls + rs, nil
		}
		return nil, fmt.Errorf("exec: cannot apply %s to a string and %s", op, typeName(r))
	}
	ld, lok := toDecimal(l)
	rd, rok := toDecimal(r)
	if !lok || !rok {
		return nil, fmt.Errorf("exec: cannot apply %s to %s and %s", op, typeName(l), typeName(r))
	}
	switch op {
	case ArithAdd:
		return ld.Add(rd), nil
	case ArithSub:
		return ld.Sub(rd), nil
	case ArithMul:
		return ld.Mul(rd), nil
	case ArithDiv:
		if rd.IsZero() {
			return nil, fmt.Errorf("exec: division by zero")
		}
		return ld.Div(rd), nil
	default:
		return nil, fmt.Errorf("exec: unknown operator %q", op)
	}
}

func negValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	d, ok := toDecimal(v)
	if !ok {
		return nil, fmt.Errorf("exec: cannot negate %s", typeName(v))
	}
	return d.Neg(), nil
}

func notValue(v any) (any, error) {
	t, err := truthOf(v)
	if err != nil {
		return nil, err
	}
	return truthCell(truthNot(t)), nil
}
