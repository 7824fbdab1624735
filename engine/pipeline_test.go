package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillerhq/tiller/dataset"
	"github.com/tillerhq/tiller/translator"
)

// scriptedGenerator replays canned replies and records every request.
type scriptedGenerator struct {
	replies []string
	errs    []error
	calls   []translator.GenerateRequest
}

func (g *scriptedGenerator) Generate(_ context.Context, req translator.GenerateRequest) (string, error) {
	i := len(g.calls)
	g.calls = append(g.calls, req)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.replies) {
		return g.replies[i], nil
	}
	return "", fmt.Errorf("scripted generator ran out of replies")
}

func listingsTable() *dataset.Table {
	names := []string{"Nome della barca", "price", "year", "brand", "location"}
	return dataset.FromRows(names, []map[string]any{
		{"Nome della barca": "Azimut Flybridge 50", "price": 680000.0, "year": 2019.0, "brand": "Azimut", "location": "Cannes"},
		{"Nome della barca": "Ferretti 450", "price": 449999.99, "year": 2016.0, "brand": "Ferretti", "location": "Genova"},
		{"Nome della barca": "Sunseeker Predator", "price": 1250000.0, "year": 2021.0, "brand": "Sunseeker", "location": "Palma"},
		{"Nome della barca": "Ferretti Yachts 500", "price": 520000.0, "year": 2018.0, "brand": "Ferretti", "location": "Napoli"},
		{"Nome della barca": "Jeanneau Sun Odyssey", "price": 95000.0, "year": 2005.0, "brand": "Jeanneau", "location": nil},
	})
}

func newTestEngine(t *testing.T, table dataset.Frame, gen translator.Generator, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithGenerator(gen)}, opts...)
	e, err := New(table, opts...)
	require.NoError(t, err)
	return e
}

func TestAskHappyPath(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`df.filter(col('brand').str.contains('(?i)ferretti'))`}}
	e := newTestEngine(t, listingsTable(), gen)

	ans, err := e.Ask(context.Background(), QueryRequest{Query: "Ferretti boats"})
	require.NoError(t, err)

	assert.Equal(t, 1, ans.Attempts)
	assert.Equal(t, `df.filter(col('brand').str.contains('(?i)ferretti'))`, ans.Expression)
	require.Equal(t, 2, ans.Result.Len())

	// name, price and year lead the display; the referenced brand follows
	assert.Equal(t, []string{"Nome della barca", "price", "year", "brand"}, ans.Display)
	assert.Equal(t, []string{"Nome Della Barca", "Price", "Year", "Brand"}, ans.Labels)
	require.Len(t, ans.Rows, 2)
	assert.Equal(t, []string{"Ferretti 450", "€450K", "2016", "Ferretti"}, ans.Rows[0])

	// the generator saw the sample and no prior error
	require.Len(t, gen.calls, 1)
	assert.Contains(t, gen.calls[0].Sample, "shape: (5, 5)")
	assert.Empty(t, gen.calls[0].PriorError)
}

func TestAskRejectsEmptyQuery(t *testing.T) {
	gen := &scriptedGenerator{}
	e := newTestEngine(t, listingsTable(), gen)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := e.Ask(context.Background(), QueryRequest{Query: q})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	assert.Empty(t, gen.calls, "a rejected query must not reach the generator")
}

func TestAskEmptyDatasetSkipsGeneration(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`df.head(5)`}}
	empty := dataset.NewTable([]string{"Nome della barca", "price"})
	e := newTestEngine(t, empty, gen)

	ans, err := e.Ask(context.Background(), QueryRequest{Query: "anything at all"})
	require.NoError(t, err)
	assert.Equal(t, 0, ans.Result.Len())
	assert.Empty(t, ans.Expression)
	assert.Empty(t, gen.calls, "empty dataset must answer without generating")

	ids, err := e.Search(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestAskRetriesCarryLatestError(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		`df.filter((`,                      // parse failure
		`df.filter(col('missing') > 1)`,    // execution failure
		`df.filter(col('price') < 500000)`, // success
	}}
	e := newTestEngine(t, listingsTable(), gen)

	ans, err := e.Ask(context.Background(), QueryRequest{Query: "cheap boats"})
	require.NoError(t, err)
	assert.Equal(t, 3, ans.Attempts)
	assert.Equal(t, 2, ans.Result.Len())

	require.Len(t, gen.calls, 3)
	assert.Empty(t, gen.calls[0].PriorError)
	assert.Contains(t, gen.calls[1].PriorError, "parse: ")
	assert.Contains(t, gen.calls[2].PriorError, `column "missing" not found`)
	assert.NotContains(t, gen.calls[2].PriorError, "parse: ",
		"only the most recent failure is carried, not the history")
}

func TestAskExhaustsRetries(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{
		`nonsense(((`,
		`more nonsense`,
		`df.filter(col('nope') > 1)`,
	}}
	e := newTestEngine(t, listingsTable(), gen, WithMaxRetries(2))

	_, err := e.Ask(context.Background(), QueryRequest{Query: "boats"})
	require.Error(t, err)
	assert.Len(t, gen.calls, 3, "MaxRetries=2 means exactly three generation calls")
	assert.ErrorIs(t, err, ErrExhaustedRetries)

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, 3, ex.Attempts)
	assert.Equal(t, `df.filter(col('nope') > 1)`, ex.Expression, "the last expression is surfaced")
	assert.Contains(t, ex.Err.Error(), `column "nope" not found`)
}

func TestAskZeroRetriesMeansOneCall(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`broken(((`}}
	e := newTestEngine(t, listingsTable(), gen, WithMaxRetries(0))

	_, err := e.Ask(context.Background(), QueryRequest{Query: "boats"})
	require.ErrorIs(t, err, ErrExhaustedRetries)
	assert.Len(t, gen.calls, 1)
}

func TestAskEmptyReplyIsTerminal(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{``, `df.head(5)`}}
	e := newTestEngine(t, listingsTable(), gen)

	_, err := e.Ask(context.Background(), QueryRequest{Query: "boats"})
	require.ErrorIs(t, err, ErrGeneration)
	assert.Len(t, gen.calls, 1, "an empty reply must not be retried")
}

func TestAskGeneratorErrorIsTerminal(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{errors.New("quota exceeded")}}
	e := newTestEngine(t, listingsTable(), gen)

	_, err := e.Ask(context.Background(), QueryRequest{Query: "boats"})
	require.ErrorIs(t, err, ErrGeneration)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Len(t, gen.calls, 1)
}

func TestAskModelOverridePassesThrough(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`df.head(5)`}}
	e := newTestEngine(t, listingsTable(), gen)

	_, err := e.Ask(context.Background(), QueryRequest{Query: "boats", Model: "gemini-exp"})
	require.NoError(t, err)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, "gemini-exp", gen.calls[0].Model)
}

func TestAskScalarResultIsWrapped(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`df['price'].max()`}}
	e := newTestEngine(t, listingsTable(), gen)

	ans, err := e.Ask(context.Background(), QueryRequest{Query: "highest price"})
	require.NoError(t, err)
	require.Equal(t, 1, ans.Result.Len())
	assert.Equal(t, []string{"result"}, ans.Result.Columns())
	assert.Equal(t, 1250000.0, ans.Result.Cell(0, "result"))
	assert.Empty(t, ans.Display, "a synthetic result column matches no display role")
}

func TestAskColumnResultIsWrapped(t *testing.T) {
	gen := &scriptedGenerator{replies: []string{`df['brand'].unique()`}}
	e := newTestEngine(t, listingsTable(), gen)

	ans, err := e.Ask(context.Background(), QueryRequest{Query: "which brands"})
	require.NoError(t, err)
	assert.Equal(t, []string{"brand"}, ans.Result.Columns())
	assert.Equal(t, 4, ans.Result.Len())
	assert.Equal(t, "Azimut", ans.Result.Cell(0, "brand"))
	assert.Equal(t, []string{"brand"}, ans.Display)
}

func TestAskExecutionTimeout(t *testing.T) {
	rows := make([]map[string]any, 5000)
	for i := range rows {
		rows[i] = map[string]any{"price": float64(i)}
	}
	big := dataset.FromRows([]string{"price"}, rows)

	gen := &scriptedGenerator{replies: []string{
		`df.filter(col('price') > 0)`,
		`df.filter(col('price') > 1)`,
		`df.filter(col('price') > 2)`,
	}}
	e := newTestEngine(t, big, gen, WithTimeout(time.Nanosecond))

	_, err := e.Ask(context.Background(), QueryRequest{Query: "boats"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhaustedRetries)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "the deadline is the recorded failure")
}

func TestSearchIDs(t *testing.T) {
	t.Run("ordinals when no id column", func(t *testing.T) {
		gen := &scriptedGenerator{replies: []string{`df.filter(col('brand') == 'Ferretti')`}}
		e := newTestEngine(t, listingsTable(), gen)

		ids, err := e.Search(context.Background(), "Ferretti boats")
		require.NoError(t, err)
		assert.Equal(t, []any{0, 1}, ids)
	})

	t.Run("id column wins when present", func(t *testing.T) {
		withIDs := dataset.FromRows([]string{"id", "price"}, []map[string]any{
			{"id": 11.0, "price": 100.0},
			{"id": 22.0, "price": 200.0},
			{"id": 33.0, "price": 300.0},
		})
		gen := &scriptedGenerator{replies: []string{`df.filter(col('price') >= 200)`}}
		e := newTestEngine(t, withIDs, gen)

		ids, err := e.Search(context.Background(), "expensive")
		require.NoError(t, err)
		assert.Equal(t, []any{22.0, 33.0}, ids)
	})

	t.Run("exhausted retries collapse to no matches", func(t *testing.T) {
		gen := &scriptedGenerator{replies: []string{`broken(((`, `broken(((`, `broken(((`}}
		e := newTestEngine(t, listingsTable(), gen)

		ids, err := e.Search(context.Background(), "boats")
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("generation failure still propagates", func(t *testing.T) {
		gen := &scriptedGenerator{errs: []error{errors.New("service down")}}
		e := newTestEngine(t, listingsTable(), gen)

		_, err := e.Search(context.Background(), "boats")
		assert.ErrorIs(t, err, ErrGeneration)
	})

	t.Run("ids are never truncated to the display cap", func(t *testing.T) {
		rows := make([]map[string]any, 60)
		for i := range rows {
			rows[i] = map[string]any{"price": float64(i)}
		}
		big := dataset.FromRows([]string{"price"}, rows)
		gen := &scriptedGenerator{replies: []string{`df.filter(col('price') >= 0)`}}
		e := newTestEngine(t, big, gen)

		ids, err := e.Search(context.Background(), "all boats")
		require.NoError(t, err)
		assert.Len(t, ids, 60)
	})
}

func TestEvaluateSkipsGeneration(t *testing.T) {
	e, err := New(listingsTable())
	require.NoError(t, err)

	ans, err := e.Evaluate(context.Background(), `df.sort('price', descending=true).head(2)`)
	require.NoError(t, err)
	assert.Equal(t, 2, ans.Result.Len())
	assert.Equal(t, "Sunseeker Predator", ans.Result.Cell(0, "Nome della barca"))

	_, err = e.Ask(context.Background(), QueryRequest{Query: "boats"})
	require.Error(t, err, "Ask needs a generator")
}
