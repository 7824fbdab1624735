package helpers

import (
	"regexp"
	"strings"
)

// ============================================================================
// NUMERIC SPANS — locate and rewrite numbers inside free query text
// ============================================================================
// A query like "Azimut under 500000 from 2015" carries numbers the user
// often wants to tweak without retyping the sentence. These helpers find
// every numeric literal with its exact position so a front end can offer
// per-number editing, splice replacements back in, or mark the numbers up
// for display. All functions are pure.
// ============================================================================

// numberPattern matches an integer optionally followed by one decimal
// separator and more digits, word-bounded. "500000", "2.5" and "2,5" all
// match; the trailing separator in "500." does not belong to the token.
var numberPattern = regexp.MustCompile(`\b\d+(?:[.,]\d+)?\b`)

// Span is one numeric literal and its byte offsets in the source text.
// Start is inclusive, End exclusive, so text[Start:End] == Literal.
type Span struct {
	Literal string
	Start   int
	End     int
}

// FindSpans returns every numeric literal in text, left to right.
func FindSpans(text string) []Span {
	var spans []Span
	for _, loc := range numberPattern.FindAllStringIndex(text, -1) {
		spans = append(spans, Span{
			Literal: text[loc[0]:loc[1]],
			Start:   loc[0],
			End:     loc[1],
		})
	}
	return spans
}

// Rewrite replaces each span with the replacement at the same index,
// working right to left so earlier offsets stay valid. Spans beyond the
// replacement list (or vice versa) are left alone. Replacing every span
// with its own literal reproduces the text unchanged.
func Rewrite(text string, spans []Span, replacements []string) string {
	n := len(spans)
	if len(replacements) < n {
		n = len(replacements)
	}
	for i := n - 1; i >= 0; i-- {
		s := spans[i]
		text = text[:s.Start] + replacements[i] + text[s.End:]
	}
	return text
}

// Highlight wraps every numeric literal in before/after markers, e.g.
// terminal color codes or "<mark>"/"</mark>".
func Highlight(text, before, after string) string {
	spans := FindSpans(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + len(spans)*(len(before)+len(after)))
	prev := 0
	for _, s := range spans {
		b.WriteString(text[prev:s.Start])
		b.WriteString(before)
		b.WriteString(s.Literal)
		b.WriteString(after)
		prev = s.End
	}
	b.WriteString(text[prev:])
	return b.String()
}
