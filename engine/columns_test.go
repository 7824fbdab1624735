package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tillerhq/tiller/schema"
)

func newResolver(t *testing.T, patterns ...string) *ColumnResolver {
	t.Helper()
	r, err := NewColumnResolver(schema.DefaultConfig(), patterns...)
	require.NoError(t, err)
	return r
}

func TestResolveRoleOrdering(t *testing.T) {
	r := newResolver(t)
	all := []string{"Nome della barca", "price", "year", "brand", "location"}

	got := r.Resolve(`df.filter(col('location').str.contains('(?i)palma'))`, all)
	assert.Equal(t, []string{"Nome della barca", "price", "year", "location"}, got,
		"name, price and year lead even when only location was referenced")
}

func TestResolveReferenceOrderDoesNotMatter(t *testing.T) {
	r := newResolver(t)
	all := []string{"boat_name", "price", "year"}

	a := r.Resolve(`df.filter(col('price') < 100).sort(col('boat_name'))`, all)
	b := r.Resolve(`df.filter(col('boat_name') != '').sort(col('price'))`, all)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"boat_name", "price", "year"}, a)
}

func TestResolveIsIdempotent(t *testing.T) {
	r := newResolver(t)
	all := []string{"Nome della barca", "price", "year", "brand"}
	expr := `df.filter(col('brand') == 'Ferretti').sort('price')`

	first := r.Resolve(expr, all)
	second := r.Resolve(expr, all)
	assert.Equal(t, first, second)
}

func TestResolveDropsUnknownNames(t *testing.T) {
	r := newResolver(t)

	got := r.Resolve(`df.filter(col('displacement') > 10)`, []string{"price", "year"})
	assert.Equal(t, []string{"price", "year"}, got,
		"a referenced column missing from the result drops out silently")
}

func TestResolveRestrictedResult(t *testing.T) {
	r := newResolver(t)

	// after select([col('brand')]) no role spelling survives, so only
	// the extracted reference remains
	got := r.Resolve(`df.select([col('brand')])`, []string{"brand"})
	assert.Equal(t, []string{"brand"}, got)
}

func TestResolveEmptyResultColumns(t *testing.T) {
	r := newResolver(t)
	assert.Empty(t, r.Resolve(`df.filter(col('price') > 1)`, nil))
	assert.Empty(t, r.Resolve(`df.filter(col('price') > 1)`, []string{}))
}

func TestResolveBracketAndNamespaceForms(t *testing.T) {
	r := newResolver(t)
	all := []string{"price", "brand", "location"}

	got := r.Resolve(`df[df['location'] == 'Palma'].filter(q.col('brand') == 'Azimut')`, all)
	assert.Equal(t, []string{"price", "brand", "location"}, got,
		"q.col('...') references extract before df['...'] indexing")
}

func TestResolveDeduplicatesReferences(t *testing.T) {
	r := newResolver(t)
	all := []string{"brand", "location"}

	got := r.Resolve(`df.filter((col('brand') == 'a') | (col('brand') == 'b'))`, all)
	assert.Equal(t, []string{"brand"}, got)
}

func TestResolveCustomPatterns(t *testing.T) {
	r := newResolver(t, `@(\w+)`)
	got := r.Resolve(`@price and @brand`, []string{"brand", "price", "year"})
	assert.Equal(t, []string{"price", "year", "brand"}, got,
		"roles still lead, custom extraction fills the tail")
}

func TestNewColumnResolverRejectsBadPatterns(t *testing.T) {
	_, err := NewColumnResolver(schema.DefaultConfig(), `([`)
	assert.Error(t, err)

	_, err = NewColumnResolver(schema.DefaultConfig(), `col\('\w+'\)`)
	assert.ErrorContains(t, err, "capture group")
}
