package engine

import (
	"context"

	"github.com/tillerhq/tiller/algebra"
	"github.com/tillerhq/tiller/dataset"
)

// ============================================================================
// EXECUTOR — one expression against the dataset
// ============================================================================
// Execution is the narrow waist of the pipeline: a parsed algebra tree, the
// listings frame, a deadline. The algebra evaluator reaches nothing but the
// frame and its own constructors, so generated text can reference no host
// symbol, file, or network — the worst a hostile expression can do is burn
// its time budget, and the deadline reclaims that.
// ============================================================================

// execute evaluates a parsed expression under the engine's time ceiling and
// canonicalizes whatever comes back.
func (e *Engine) execute(ctx context.Context, expr algebra.Expr) (*dataset.Table, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	v, err := algebra.Evaluate(ctx, expr, e.table)
	if err != nil {
		return nil, err
	}
	return Canonicalize(v), nil
}

// Canonicalize coerces an evaluation result into the one shape downstream
// stages handle: a materialized table. A frame is materialized as-is, a
// column becomes a one-column table, and a scalar becomes a single-cell
// table under the column "result".
func Canonicalize(v any) *dataset.Table {
	switch tv := v.(type) {
	case dataset.Frame:
		return dataset.Materialize(tv)
	case *algebra.Series:
		name := tv.Name
		if name == "" {
			name = "result"
		}
		t := dataset.NewTable([]string{name})
		for _, cell := range tv.Values {
			t.AppendRow(map[string]any{name: cell})
		}
		return t
	default:
		t := dataset.NewTable([]string{"result"})
		t.AppendRow(map[string]any{"result": v})
		return t
	}
}
