package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tillerhq/tiller/algebra"
	"github.com/tillerhq/tiller/dataset"
	"github.com/tillerhq/tiller/schema"
	"github.com/tillerhq/tiller/translator"
)

// ============================================================================
// ENGINE — retrying NL → expression → result pipeline
// ============================================================================
// State machine per run:
//
//	Generating → Validating → Executing → Succeeded
//	     ↑            │            │
//	     └────────────┴────────────┘  (attempts remain; carries latest error)
//
// Generation failing — service error or empty reply — ends the run at once:
// regenerating against the same failure is never useful. Validation and
// execution failures loop back with the single most recent error as
// correction context. MaxRetries bounds the loop-backs, so a run makes at
// most MaxRetries+1 generation calls.
// ============================================================================

// Engine answers natural language queries over one listings table.
// Safe for concurrent use: the table is never mutated after New.
type Engine struct {
	table    dataset.Frame
	cfg      *config
	resolver *ColumnResolver
	sample   string
}

// New builds an engine over the listings frame.
func New(table dataset.Frame, opts ...Option) (*Engine, error) {
	cfg := applyOptions(opts)
	if err := cfg.Aliases.Validate(); err != nil {
		return nil, fmt.Errorf("alias config: %w", err)
	}
	resolver, err := NewColumnResolver(cfg.Aliases, cfg.ResolverPatterns...)
	if err != nil {
		return nil, err
	}
	return &Engine{
		table:    table,
		cfg:      cfg,
		resolver: resolver,
		sample:   dataset.Sample(table, cfg.SampleRows),
	}, nil
}

// Table returns the frame the engine answers over.
func (e *Engine) Table() dataset.Frame { return e.table }

// Sample returns the printed schema sample shown to the generator.
func (e *Engine) Sample() string { return e.sample }

// Aliases returns the column alias table the engine resolves and formats with.
func (e *Engine) Aliases() schema.Config { return e.cfg.Aliases }

// Ask answers one natural language query: generate, validate, execute,
// retry on failure, then resolve display columns and format rows.
func (e *Engine) Ask(ctx context.Context, req QueryRequest) (*Answer, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	if e.cfg.Generator == nil {
		return nil, fmt.Errorf("engine has no generator configured")
	}

	runID := shortID()
	started := time.Now()
	log.Printf("⛵ Tiller: run=%s query=%q", runID, truncate(req.Query, 80))

	// A dataset with no rows answers every query with no rows. The
	// generator is never consulted.
	if e.table.Len() == 0 {
		log.Printf("⚠️ Tiller: run=%s dataset is empty, skipping generation", runID)
		return &Answer{
			RunID:   runID,
			Query:   req.Query,
			Result:  dataset.Materialize(dataset.NewRowsView(e.table, nil)),
			Elapsed: time.Since(started),
		}, nil
	}

	var (
		priorError string
		lastExpr   string
		lastErr    error
		attempts   int
	)

	for attempt := 0; attempt <= e.cfg.MaxRetries; attempt++ {
		attempts++

		text, err := e.cfg.Generator.Generate(ctx, translator.GenerateRequest{
			Query:      req.Query,
			Sample:     e.sample,
			PriorError: priorError,
			Model:      req.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
		}
		if text == "" {
			return nil, fmt.Errorf("%w: the model returned an empty reply", ErrGeneration)
		}
		lastExpr = text

		expr, err := algebra.Parse(text)
		if err != nil {
			log.Printf("⚠️ Tiller: run=%s attempt %d/%d rejected: %v",
				runID, attempt+1, e.cfg.MaxRetries+1, err)
			priorError, lastErr = err.Error(), err
			continue
		}

		result, err := e.execute(ctx, expr)
		if err != nil {
			log.Printf("⚠️ Tiller: run=%s attempt %d/%d failed: %v",
				runID, attempt+1, e.cfg.MaxRetries+1, err)
			priorError, lastErr = err.Error(), err
			continue
		}

		ans := e.finish(runID, req.Query, text, result, attempts, started)
		log.Printf("✅ Tiller: run=%s rows=%d cols=%d attempts=%d in %s",
			runID, ans.Result.Len(), len(ans.Display), attempts, ans.Elapsed.Round(time.Millisecond))
		return ans, nil
	}

	log.Printf("❌ Tiller: run=%s exhausted after %d attempts: %v", runID, attempts, lastErr)
	return nil, &ExhaustedError{Attempts: attempts, Expression: lastExpr, Err: lastErr}
}

// Search answers a query and reduces the result to listing ids: the id
// column when the result kept one, row ordinals otherwise. Unlike the
// displayed rows, ids are never truncated. Exhausted retries collapse to
// an empty id list — for a caller matching listings, "we could not build
// a working expression" and "nothing matched" read the same.
func (e *Engine) Search(ctx context.Context, query string) ([]any, error) {
	ans, err := e.Ask(ctx, QueryRequest{Query: query})
	if errors.Is(err, ErrExhaustedRetries) {
		return []any{}, nil
	}
	if err != nil {
		return nil, err
	}
	return ResultIDs(ans.Result), nil
}

// Evaluate runs a pre-written algebra expression through validation,
// execution and formatting, skipping generation entirely.
func (e *Engine) Evaluate(ctx context.Context, exprText string) (*Answer, error) {
	expr, err := algebra.Parse(exprText)
	if err != nil {
		return nil, err
	}
	runID := shortID()
	started := time.Now()
	result, err := e.execute(ctx, expr)
	if err != nil {
		return nil, err
	}
	return e.finish(runID, "", exprText, result, 0, started), nil
}

// finish assembles the Answer for a materialized result.
func (e *Engine) finish(runID, query, expr string, result *dataset.Table, attempts int, started time.Time) *Answer {
	display := e.resolver.Resolve(expr, result.Columns())
	return &Answer{
		RunID:      runID,
		Query:      query,
		Expression: expr,
		Result:     result,
		Display:    display,
		Labels:     Labels(display),
		Rows:       FormatRows(result, display, e.cfg.Aliases),
		Attempts:   attempts,
		Elapsed:    time.Since(started),
	}
}

func shortID() string {
	return uuid.NewString()[:8]
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
