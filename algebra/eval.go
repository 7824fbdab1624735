package algebra

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tillerhq/tiller/dataset"
)

// ============================================================================
// EVALUATOR
// ============================================================================
// Evaluation walks the AST directly against a dataset.Frame. There is no
// dynamic code execution anywhere: every method name is matched against a
// fixed allowlist, and anything outside it fails with a descriptive error
// that flows back into the retry prompt.
//
// Two frames are tracked while walking:
//
//	base — what the identifier df refers to, always the input frame
//	cur  — what bare col() refers to; inside a method call or a bracket
//	       index it is rebound to the receiver, so that
//	       df.filter(col('price') < 5).filter(col('year') > 2000)
//	       resolves the second col() against the already-filtered rows
// ============================================================================

// Evaluate runs a parsed expression against base. The result is a
// dataset.Frame, a *Series or a scalar (nil, bool, string or float64).
func Evaluate(ctx context.Context, e Expr, base dataset.Frame) (any, error) {
	ev := &evaluator{ctx: ctx, base: base, cur: base}
	v, err := ev.eval(e)
	if err != nil {
		return nil, err
	}
	return exportValue(v)
}

// Run parses and evaluates text in one step.
func Run(ctx context.Context, text string, base dataset.Frame) (any, error) {
	e, err := Parse(text)
	if err != nil {
		return nil, err
	}
	return Evaluate(ctx, e, base)
}

type evaluator struct {
	ctx   context.Context
	base  dataset.Frame
	cur   dataset.Frame
	ticks int
}

// tick polls the context every 1024 units of work so a runaway expression
// stops shortly after its deadline instead of running to completion.
func (ev *evaluator) tick() error {
	ev.ticks++
	if ev.ticks&1023 == 0 {
		if err := ev.ctx.Err(); err != nil {
			return fmt.Errorf("exec: %w", err)
		}
	}
	return nil
}

func (ev *evaluator) eval(e Expr) (any, error) {
	switch n := e.(type) {
	case *IdentExpr:
		return ev.evalIdent(n)
	case *NumberLit:
		d, err := decimal.NewFromString(n.Literal)
		if err != nil {
			return nil, fmt.Errorf("exec: bad number %q", n.Literal)
		}
		return d, nil
	case *StringLit:
		return n.Value, nil
	case *BoolLit:
		return n.Value, nil
	case *NullLit:
		return nil, nil
	case *ListLit:
		out := make([]any, 0, len(n.Elems))
		for _, el := range n.Elems {
			v, err := ev.eval(el)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case *UnaryExpr:
		return ev.evalUnary(n)
	case *CompareExpr:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return ev.zip(l, r, func(a, b any) (any, error) { return compareValues(n.Op, a, b) })
	case *ArithExpr:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return ev.zip(l, r, func(a, b any) (any, error) { return arithValues(n.Op, a, b) })
	case *LogicExpr:
		l, err := ev.eval(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := ev.eval(n.Right)
		if err != nil {
			return nil, err
		}
		return ev.zip(l, r, logicCell(n.Op))
	case *AttrExpr:
		return ev.evalAttr(n)
	case *CallExpr:
		return ev.evalCall(n)
	case *IndexExpr:
		return ev.evalIndex(n)
	default:
		return nil, fmt.Errorf("exec: unsupported expression node %T", e)
	}
}

func (ev *evaluator) evalIdent(n *IdentExpr) (any, error) {
	switch n.Name {
	case "df":
		return ev.base, nil
	case "q":
		return namespace{}, nil
	case "col", "lit":
		return nil, fmt.Errorf("exec: %s must be called, like %s('price')", n.Name, n.Name)
	default:
		return nil, fmt.Errorf("exec: name %q is not defined", n.Name)
	}
}

func (ev *evaluator) evalUnary(n *UnaryExpr) (any, error) {
	v, err := ev.eval(n.Expr)
	if err != nil {
		return nil, err
	}
	apply := notValue
	if n.Op == UnaryNeg {
		apply = negValue
	}
	if s, ok := v.(*Series); ok {
		out := make([]any, len(s.Values))
		for i, c := range s.Values {
			if err := ev.tick(); err != nil {
				return nil, err
			}
			if out[i], err = apply(c); err != nil {
				return nil, err
			}
		}
		return &Series{Name: s.Name, Values: out}, nil
	}
	return apply(v)
}

func (ev *evaluator) evalAttr(n *AttrExpr) (any, error) {
	recv, err := ev.eval(n.Recv)
	if err != nil {
		return nil, err
	}
	if s, ok := recv.(*Series); ok && n.Name == "str" {
		return s, nil
	}
	if _, ok := recv.(namespace); ok {
		return nil, fmt.Errorf("exec: q.%s must be called, like q.%s('price')", n.Name, n.Name)
	}
	return nil, fmt.Errorf("exec: %s has no attribute %q", typeName(recv), n.Name)
}

// ============================================================================
// CALLS
// ============================================================================

func (ev *evaluator) evalCall(n *CallExpr) (any, error) {
	if n.Recv == nil {
		return ev.callBuiltin(n.Name, n)
	}
	recv, err := ev.eval(n.Recv)
	if err != nil {
		return nil, err
	}
	switch r := recv.(type) {
	case namespace:
		return ev.callBuiltin("q."+n.Name, n)
	case *Series:
		return ev.callSeries(r, n)
	case dataset.Frame:
		return ev.callFrame(r, n)
	default:
		return nil, fmt.Errorf("exec: %s has no method %q", typeName(recv), n.Name)
	}
}

// callBuiltin handles bare col/lit and their q.col/q.lit spellings.
func (ev *evaluator) callBuiltin(display string, n *CallExpr) (any, error) {
	args, kwargs, err := ev.evalArgs(n)
	if err != nil {
		return nil, err
	}
	switch strings.TrimPrefix(display, "q.") {
	case "col":
		if len(args) != 1 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: %s() expects one column name", display)
		}
		name, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("exec: %s() expects a column name, found %s", display, typeName(args[0]))
		}
		return ev.seriesFrom(ev.cur, name)
	case "lit":
		if len(args) != 1 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: %s() expects one value", display)
		}
		switch args[0].(type) {
		case nil, bool, string, decimal.Decimal:
			return args[0], nil
		default:
			return nil, fmt.Errorf("exec: %s() expects a plain value, found %s", display, typeName(args[0]))
		}
	default:
		return nil, fmt.Errorf("exec: unknown function %q", display)
	}
}

func (ev *evaluator) callFrame(f dataset.Frame, n *CallExpr) (any, error) {
	// Arguments see the receiver, so chained calls resolve col() against
	// the frame they are invoked on rather than the original table.
	saved := ev.cur
	ev.cur = f
	args, kwargs, err := ev.evalArgs(n)
	ev.cur = saved
	if err != nil {
		return nil, err
	}

	switch n.Name {
	case "filter":
		if len(args) != 1 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: filter() expects exactly one predicate")
		}
		return ev.filterFrame(f, args[0])
	case "select":
		if len(args) == 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: select() expects column names")
		}
		names, err := flattenNames("select", args)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if !hasColumn(f, name) {
				return nil, fmt.Errorf("exec: column %q not found", name)
			}
		}
		return dataset.NewColsView(f, names), nil
	case "sort":
		return ev.sortFrame(f, args, kwargs)
	case "head", "limit":
		if len(kwargs) != 0 || len(args) > 1 {
			return nil, fmt.Errorf("exec: %s() expects at most one row count", n.Name)
		}
		count := 5
		if len(args) == 1 {
			if count, err = asCount(n.Name, args[0]); err != nil {
				return nil, err
			}
		}
		if count > f.Len() {
			count = f.Len()
		}
		idx := make([]int, count)
		for i := range idx {
			idx[i] = i
		}
		return dataset.NewRowsView(f, idx), nil
	case "unique":
		if len(args) != 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: unique() takes no arguments")
		}
		return ev.uniqueFrame(f)
	case "count":
		if len(args) != 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: count() takes no arguments")
		}
		return float64(f.Len()), nil
	case "min", "max", "mean", "sum":
		vals, name, err := ev.aggInput(f, n.Name, args, kwargs)
		if err != nil {
			return nil, err
		}
		return applyAgg(n.Name, name, vals)
	case "lazy", "collect":
		if len(args) != 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: %s() takes no arguments", n.Name)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("exec: unknown method %q on a table", n.Name)
	}
}

func (ev *evaluator) callSeries(s *Series, n *CallExpr) (any, error) {
	args, kwargs, err := ev.evalArgs(n)
	if err != nil {
		return nil, err
	}

	switch n.Name {
	case "contains":
		return ev.seriesContains(s, args, kwargs)
	case "is_null", "is_not_null":
		if len(args) != 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: %s() takes no arguments", n.Name)
		}
		want := n.Name == "is_null"
		out := make([]any, len(s.Values))
		for i, c := range s.Values {
			out[i] = (c == nil) == want
		}
		return &Series{Name: s.Name, Values: out}, nil
	case "is_in":
		if len(args) != 1 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: is_in() expects a list of values")
		}
		list, ok := args[0].([]any)
		if !ok {
			return nil, fmt.Errorf("exec: is_in() expects a list, found %s", typeName(args[0]))
		}
		return ev.seriesIsIn(s, list)
	case "min", "max", "mean", "sum":
		if len(args) != 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: %s() on a column takes no arguments", n.Name)
		}
		return applyAgg(n.Name, s.Name, s.Values)
	case "count":
		if len(args) != 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: count() takes no arguments")
		}
		return aggCount(s.Values), nil
	case "unique":
		if len(args) != 0 || len(kwargs) != 0 {
			return nil, fmt.Errorf("exec: unique() takes no arguments")
		}
		seen := make(map[string]bool, len(s.Values))
		out := make([]any, 0, len(s.Values))
		for _, c := range s.Values {
			if err := ev.tick(); err != nil {
				return nil, err
			}
			key := cellKey(c)
			if !seen[key] {
				seen[key] = true
				out = append(out, c)
			}
		}
		return &Series{Name: s.Name, Values: out}, nil
	case "head":
		if len(kwargs) != 0 || len(args) > 1 {
			return nil, fmt.Errorf("exec: head() expects at most one row count")
		}
		count := 5
		if len(args) == 1 {
			if count, err = asCount("head", args[0]); err != nil {
				return nil, err
			}
		}
		if count > len(s.Values) {
			count = len(s.Values)
		}
		return &Series{Name: s.Name, Values: append([]any(nil), s.Values[:count]...)}, nil
	default:
		return nil, fmt.Errorf("exec: unknown method %q on a column", n.Name)
	}
}

// ============================================================================
// FRAME OPERATIONS
// ============================================================================

func (ev *evaluator) filterFrame(f dataset.Frame, pred any) (any, error) {
	switch p := pred.(type) {
	case *Series:
		if len(p.Values) != f.Len() {
			return nil, fmt.Errorf("exec: predicate has %d values but the table has %d rows", len(p.Values), f.Len())
		}
		idx := make([]int, 0, len(p.Values))
		for i, c := range p.Values {
			if err := ev.tick(); err != nil {
				return nil, err
			}
			t, err := truthOf(c)
			if err != nil {
				return nil, err
			}
			if t == truthTrue {
				idx = append(idx, i)
			}
		}
		return dataset.NewRowsView(f, idx), nil
	case bool:
		if p {
			return f, nil
		}
		return dataset.NewRowsView(f, nil), nil
	case nil:
		return dataset.NewRowsView(f, nil), nil
	default:
		return nil, fmt.Errorf("exec: filter() expects a boolean predicate, found %s", typeName(pred))
	}
}

func (ev *evaluator) sortFrame(f dataset.Frame, args []any, kwargs map[string]any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("exec: sort() expects a column name")
	}
	name, err := nameOf("sort", args[0])
	if err != nil {
		return nil, err
	}
	if !hasColumn(f, name) {
		return nil, fmt.Errorf("exec: column %q not found", name)
	}
	desc := false
	if len(args) > 1 {
		if len(args) > 2 {
			return nil, fmt.Errorf("exec: sort() expects at most two arguments")
		}
		b, ok := args[1].(bool)
		if !ok {
			return nil, fmt.Errorf("exec: sort() direction must be true or false")
		}
		desc = b
	}
	for key, v := range kwargs {
		switch key {
		case "descending", "reverse":
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("exec: sort() %s= must be true or false", key)
			}
			desc = b
		default:
			return nil, fmt.Errorf("exec: sort() got an unexpected keyword %q", key)
		}
	}

	idx := make([]int, f.Len())
	for i := range idx {
		idx[i] = i
	}
	var sortErr error
	sort.SliceStable(idx, func(a, b int) bool {
		x, y := f.Cell(idx[a], name), f.Cell(idx[b], name)
		if desc {
			x, y = y, x
		}
		less, err := cellLess(x, y)
		if err != nil && sortErr == nil {
			sortErr = err
		}
		return less
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return dataset.NewRowsView(f, idx), nil
}

func (ev *evaluator) uniqueFrame(f dataset.Frame) (any, error) {
	cols := f.Columns()
	seen := make(map[string]bool, f.Len())
	idx := make([]int, 0, f.Len())
	var key strings.Builder
	for i := 0; i < f.Len(); i++ {
		if err := ev.tick(); err != nil {
			return nil, err
		}
		key.Reset()
		for _, c := range cols {
			key.WriteString(cellKey(f.Cell(i, c)))
			key.WriteByte(0)
		}
		k := key.String()
		if !seen[k] {
			seen[k] = true
			idx = append(idx, i)
		}
	}
	return dataset.NewRowsView(f, idx), nil
}

func (ev *evaluator) aggInput(f dataset.Frame, fn string, args []any, kwargs map[string]any) ([]any, string, error) {
	if len(args) != 1 || len(kwargs) != 0 {
		return nil, "", fmt.Errorf("exec: %s() on a table expects a column name, like %s('price')", fn, fn)
	}
	if s, ok := args[0].(*Series); ok {
		return s.Values, s.Name, nil
	}
	name, err := nameOf(fn, args[0])
	if err != nil {
		return nil, "", err
	}
	s, err := ev.seriesFrom(f, name)
	if err != nil {
		return nil, "", err
	}
	return s.Values, name, nil
}

// ============================================================================
// SERIES OPERATIONS
// ============================================================================

func (ev *evaluator) seriesContains(s *Series, args []any, kwargs map[string]any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("exec: contains() expects a pattern")
	}
	pattern, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("exec: contains() expects a string pattern, found %s", typeName(args[0]))
	}
	literal := false
	for key, v := range kwargs {
		if key != "literal" {
			return nil, fmt.Errorf("exec: contains() got an unexpected keyword %q", key)
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("exec: contains() literal= must be true or false")
		}
		literal = b
	}

	match := func(cell string) bool { return strings.Contains(cell, pattern) }
	if !literal {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("exec: bad pattern %q: %v", pattern, err)
		}
		match = re.MatchString
	}

	out := make([]any, len(s.Values))
	for i, c := range s.Values {
		if err := ev.tick(); err != nil {
			return nil, err
		}
		str, ok := c.(string)
		if !ok {
			out[i] = nil
			continue
		}
		out[i] = match(str)
	}
	return &Series{Name: s.Name, Values: out}, nil
}

func (ev *evaluator) seriesIsIn(s *Series, list []any) (any, error) {
	out := make([]any, len(s.Values))
	for i, c := range s.Values {
		if err := ev.tick(); err != nil {
			return nil, err
		}
		if c == nil {
			out[i] = nil
			continue
		}
		found := false
		for _, want := range list {
			eq, err := compareValues(CompareEq, c, want)
			if err != nil {
				continue // type mismatch against this element: not a match
			}
			if eq == true {
				found = true
				break
			}
		}
		out[i] = found
	}
	return &Series{Name: s.Name, Values: out}, nil
}

// ============================================================================
// SHARED HELPERS
// ============================================================================

func (ev *evaluator) evalArgs(n *CallExpr) ([]any, map[string]any, error) {
	args := make([]any, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := ev.eval(a)
		if err != nil {
			return nil, nil, err
		}
		args = append(args, v)
	}
	var kwargs map[string]any
	if len(n.Kwargs) > 0 {
		kwargs = make(map[string]any, len(n.Kwargs))
		for _, kw := range n.Kwargs {
			if _, dup := kwargs[kw.Name]; dup {
				return nil, nil, fmt.Errorf("exec: duplicate keyword %q", kw.Name)
			}
			v, err := ev.eval(kw.Value)
			if err != nil {
				return nil, nil, err
			}
			kwargs[kw.Name] = v
		}
	}
	return args, kwargs, nil
}

func (ev *evaluator) evalIndex(n *IndexExpr) (any, error) {
	recv, err := ev.eval(n.Recv)
	if err != nil {
		return nil, err
	}
	f, ok := recv.(dataset.Frame)
	if !ok {
		return nil, fmt.Errorf("exec: %s cannot be indexed", typeName(recv))
	}

	saved := ev.cur
	ev.cur = f
	idx, err := ev.eval(n.Index)
	ev.cur = saved
	if err != nil {
		return nil, err
	}

	switch iv := idx.(type) {
	case string:
		return ev.seriesFrom(f, iv)
	case []any:
		names, err := flattenNames("index", iv)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if !hasColumn(f, name) {
				return nil, fmt.Errorf("exec: column %q not found", name)
			}
		}
		return dataset.NewColsView(f, names), nil
	case *Series:
		return ev.filterFrame(f, iv)
	case decimal.Decimal:
		return nil, fmt.Errorf("exec: row numbers cannot be used as an index; use head() or filter()")
	default:
		return nil, fmt.Errorf("exec: a table cannot be indexed with %s", typeName(idx))
	}
}

func (ev *evaluator) seriesFrom(f dataset.Frame, name string) (*Series, error) {
	if !hasColumn(f, name) {
		return nil, fmt.Errorf("exec: column %q not found", name)
	}
	vals := make([]any, f.Len())
	for i := range vals {
		if err := ev.tick(); err != nil {
			return nil, err
		}
		vals[i] = f.Cell(i, name)
	}
	return &Series{Name: name, Values: vals}, nil
}

func (ev *evaluator) zip(l, r any, fn func(a, b any) (any, error)) (any, error) {
	ls, lok := l.(*Series)
	rs, rok := r.(*Series)
	switch {
	case lok && rok:
		if len(ls.Values) != len(rs.Values) {
			return nil, fmt.Errorf("exec: series lengths differ: %d vs %d", len(ls.Values), len(rs.Values))
		}
		out := make([]any, len(ls.Values))
		for i := range ls.Values {
			if err := ev.tick(); err != nil {
				return nil, err
			}
			v, err := fn(ls.Values[i], rs.Values[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &Series{Name: ls.Name, Values: out}, nil
	case lok:
		out := make([]any, len(ls.Values))
		for i := range ls.Values {
			if err := ev.tick(); err != nil {
				return nil, err
			}
			v, err := fn(ls.Values[i], r)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &Series{Name: ls.Name, Values: out}, nil
	case rok:
		out := make([]any, len(rs.Values))
		for i := range rs.Values {
			if err := ev.tick(); err != nil {
				return nil, err
			}
			v, err := fn(l, rs.Values[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return &Series{Name: rs.Name, Values: out}, nil
	default:
		return fn(l, r)
	}
}

func logicCell(op LogicOp) func(a, b any) (any, error) {
	return func(a, b any) (any, error) {
		ta, err := truthOf(a)
		if err != nil {
			return nil, err
		}
		tb, err := truthOf(b)
		if err != nil {
			return nil, err
		}
		if op == LogicAnd {
			return truthCell(truthAnd(ta, tb)), nil
		}
		return truthCell(truthOr(ta, tb)), nil
	}
}

func applyAgg(fn, name string, vals []any) (any, error) {
	switch fn {
	case "min":
		return aggMin(name, vals)
	case "max":
		return aggMax(name, vals)
	case "mean":
		return aggMean(name, vals)
	default:
		return aggSum(name, vals)
	}
}

func hasColumn(f dataset.Frame, name string) bool {
	for _, c := range f.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// flattenNames turns select/index arguments into plain column names,
// accepting strings, col() references and nested lists of either.
func flattenNames(fn string, args []any) ([]string, error) {
	names := make([]string, 0, len(args))
	for _, a := range args {
		switch v := a.(type) {
		case string:
			names = append(names, v)
		case *Series:
			names = append(names, v.Name)
		case []any:
			nested, err := flattenNames(fn, v)
			if err != nil {
				return nil, err
			}
			names = append(names, nested...)
		default:
			return nil, fmt.Errorf("exec: %s expects column names, found %s", fn, typeName(a))
		}
	}
	return names, nil
}

func nameOf(fn string, arg any) (string, error) {
	switch v := arg.(type) {
	case string:
		return v, nil
	case *Series:
		return v.Name, nil
	default:
		return "", fmt.Errorf("exec: %s() expects a column name, found %s", fn, typeName(arg))
	}
}

func asCount(fn string, arg any) (int, error) {
	d, ok := toDecimal(arg)
	if !ok || !d.IsInteger() || d.IsNegative() {
		return 0, fmt.Errorf("exec: %s() expects a non-negative whole number", fn)
	}
	return int(d.IntPart()), nil
}

// cellLess orders cells for sort: nulls first, then booleans, numbers and
// strings, each group ordered within itself.
func cellLess(a, b any) (bool, error) {
	ra, rb := cellRank(a), cellRank(b)
	if ra != rb {
		return ra < rb, nil
	}
	switch ra {
	case 0: // both null
		return false, nil
	case 1:
		av, bv := a.(bool), b.(bool)
		return !av && bv, nil
	case 2:
		ad, _ := toDecimal(a)
		bd, _ := toDecimal(b)
		return ad.Cmp(bd) < 0, nil
	case 3:
		return a.(string) < b.(string), nil
	default:
		return false, fmt.Errorf("exec: cannot sort %s values", typeName(a))
	}
}

func cellRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case decimal.Decimal, float64, float32, int, int64:
		return 2
	case string:
		return 3
	default:
		return 4
	}
}

func cellKey(v any) string {
	if d, ok := toDecimal(v); ok {
		return "n:" + d.String()
	}
	return fmt.Sprintf("%T:%v", v, v)
}

// exportValue converts the evaluation result for callers: internal decimals
// become float64, and values that only make sense mid-expression are refused.
func exportValue(v any) (any, error) {
	switch tv := v.(type) {
	case *Series:
		out := make([]any, len(tv.Values))
		for i, c := range tv.Values {
			out[i] = exportCell(c)
		}
		return &Series{Name: tv.Name, Values: out}, nil
	case namespace:
		return nil, fmt.Errorf("exec: the expression does not produce a result")
	case []any:
		return nil, fmt.Errorf("exec: a bare list is not a result")
	default:
		return exportCell(tv), nil
	}
}
