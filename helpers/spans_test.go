package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSpans(t *testing.T) {
	text := "Azimut under 500000 from 2015, budget 2.5 or 2,5"
	spans := FindSpans(text)
	require.Len(t, spans, 4)

	literals := make([]string, len(spans))
	for i, s := range spans {
		literals[i] = s.Literal
		assert.Equal(t, s.Literal, text[s.Start:s.End], "offsets must index the literal")
	}
	assert.Equal(t, []string{"500000", "2015", "2.5", "2,5"}, literals)
}

func TestFindSpansNoNumbers(t *testing.T) {
	assert.Empty(t, FindSpans("boats in Liguria"))
	assert.Empty(t, FindSpans(""))
}

func TestFindSpansSeparatorNeedsDigits(t *testing.T) {
	spans := FindSpans("around 500. or so")
	require.Len(t, spans, 1)
	assert.Equal(t, "500", spans[0].Literal, "a trailing separator is not part of the token")
}

func TestRewriteIdentity(t *testing.T) {
	texts := []string{
		"Azimut under 500000 from 2015",
		"2.5 meters, 2,5 metri, 999",
		"no numbers here",
		"",
	}
	for _, text := range texts {
		spans := FindSpans(text)
		literals := make([]string, len(spans))
		for i, s := range spans {
			literals[i] = s.Literal
		}
		assert.Equal(t, text, Rewrite(text, spans, literals))
	}
}

func TestRewriteReplacesRightToLeft(t *testing.T) {
	text := "under 500000 from 2015"
	spans := FindSpans(text)
	require.Len(t, spans, 2)

	// the first replacement is longer than its span; the second span's
	// offsets must still land correctly
	got := Rewrite(text, spans, []string{"1250000", "2019"})
	assert.Equal(t, "under 1250000 from 2019", got)
}

func TestRewriteUnevenLists(t *testing.T) {
	text := "under 500000 from 2015"
	spans := FindSpans(text)

	assert.Equal(t, "under 750000 from 2015", Rewrite(text, spans, []string{"750000"}))
	assert.Equal(t, text, Rewrite(text, nil, []string{"750000"}))
}

func TestHighlight(t *testing.T) {
	got := Highlight("under 500000 from 2015", "<mark>", "</mark>")
	assert.Equal(t, "under <mark>500000</mark> from <mark>2015</mark>", got)

	assert.Equal(t, "plain text", Highlight("plain text", "[", "]"))
}
