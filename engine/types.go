package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tillerhq/tiller/dataset"
)

// ============================================================================
// ENGINE TYPES — Query Pipeline Contracts
// ============================================================================
// One run moves through four stages: sample → generate → validate → execute.
// Validation and execution failures loop back into generation with the most
// recent error as correction context; generation failures and empty datasets
// end the run on the spot.
// ============================================================================

// QueryRequest is one natural language query against the dataset.
type QueryRequest struct {
	// Query is the buyer's question. Must be non-empty.
	Query string
	// Model optionally overrides the generator's default model.
	Model string
}

// Answer is the outcome of a successful run.
type Answer struct {
	RunID      string         // short id correlating the run's log lines
	Query      string         // the question as asked
	Expression string         // winning algebra expression ("" on an empty dataset)
	Result     *dataset.Table // canonical result: always a materialized table
	Display    []string       // resolved display columns, in presentation order
	Labels     []string       // title-cased headers for Display
	Rows       [][]string     // formatted cells, capped rows, Display order
	Attempts   int            // generation calls made
	Elapsed    time.Duration
}

// ============================================================================
// FAILURE TAXONOMY
// ============================================================================

var (
	// ErrEmptyQuery rejects blank query text before any work happens.
	ErrEmptyQuery = errors.New("query text is empty")

	// ErrGeneration marks a terminal generation failure: the service
	// errored or returned nothing. Generation is never re-invoked to
	// compensate for its own failure.
	ErrGeneration = errors.New("expression generation failed")

	// ErrExhaustedRetries marks a run that used up every attempt.
	// Match with errors.Is; the concrete value is an *ExhaustedError
	// carrying the last expression and the last failure.
	ErrExhaustedRetries = errors.New("retries exhausted")
)

// ExhaustedError reports the final state of a run that never produced a
// usable result: the last generated expression and the error it raised.
// Intermediate attempts are not kept.
type ExhaustedError struct {
	Attempts   int
	Expression string
	Err        error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: last expression %q failed: %v",
		e.Attempts, e.Expression, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

func (e *ExhaustedError) Is(target error) bool { return target == ErrExhaustedRetries }

// ResultIDs extracts listing identifiers from a result table: the id column
// when the result kept one, otherwise the result's own row ordinals.
func ResultIDs(t *dataset.Table) []any {
	ids := make([]any, t.Len())
	if t.Has("id") {
		for i := range ids {
			ids[i] = t.Cell(i, "id")
		}
		return ids
	}
	for i := range ids {
		ids[i] = i
	}
	return ids
}
