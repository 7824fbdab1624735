// Package tiller turns natural-language questions about boat listings
// into query-algebra expressions, executes them locally, and shapes the
// result for display.
//
// Usage:
//
//	import (
//	    "github.com/tillerhq/tiller/engine"
//	    "github.com/tillerhq/tiller/translator"
//	)
//
//	eng, err := engine.New(table, engine.WithGenerator(gen))
//	answer, err := eng.Ask(ctx, engine.QueryRequest{Query: "Ferretti under 500000"})
//
// The engine owns the retry pipeline: generate → validate → execute →
// resolve display columns → format. Expression generation is handled by
// the translator package; everything after the generated text comes back
// is local computation — the algebra evaluator never reaches outside the
// loaded table.
package tiller
