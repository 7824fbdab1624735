package translator

import (
	"fmt"
	"strings"
)

// ============================================================================
// PROMPT BUILDER
// ============================================================================
// The prompt is fixed apart from three inserts: the schema sample, the
// question, and — on retry — the previous failure. Everything the model is
// allowed to emit is expressible in the algebra, so every instruction below
// is satisfiable; a model that ignores them produces text the validator or
// executor rejects, and the rejection comes back through PriorError.
// ============================================================================

const promptHeader = `You are a query translator for a boat-listings search tool.
You turn a buyer's question into ONE expression in the tiller query algebra,
a small polars-style table language. The listings table is bound to df.
You are a TRANSLATOR ONLY - never answer the question yourself, never invent data.`

// promptInstructions is the fixed rule list shown on every attempt.
// The order is deliberate; tests pin it.
var promptInstructions = []string{
	"Reply with a single evaluable algebra expression and nothing else.",
	"The expression must produce a table. Append .head(n) when the question limits how many rows to show.",
	"Do not add prose, code fences, quotes or explanations around the expression.",
	"Prefer df.filter(...) over boolean-mask indexing like df[...].",
	"When the question names a brand or manufacturer, filter with a case-insensitive substring match on a brand-like column.",
	"When the question names a location, filter with a case-insensitive substring match on a location-like column.",
	"Combine multiple conditions with &.",
	"For case-insensitive matching embed the (?i) flag inside the pattern itself, never as a separate argument.",
}

// BuildPrompt assembles the full prompt for one generation attempt.
func BuildPrompt(req GenerateRequest) string {
	var b strings.Builder

	b.WriteString(promptHeader)
	b.WriteString("\n\n")

	b.WriteString("THE TABLE (sample rows, not the full data):\n")
	b.WriteString(strings.TrimRight(req.Sample, "\n"))
	b.WriteString("\n\n")

	b.WriteString("INSTRUCTIONS:\n")
	for i, inst := range promptInstructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, inst)
	}
	b.WriteString("\n")

	b.WriteString("USER QUESTION: ")
	b.WriteString(req.Query)
	b.WriteString("\n")

	if req.PriorError != "" {
		b.WriteString("\nYOUR PREVIOUS ATTEMPT FAILED.\n")
		b.WriteString("The previous expression produced the following error:\n")
		b.WriteString(req.PriorError)
		b.WriteString("\nReturn a corrected expression that avoids this error.\n")
	}

	b.WriteString("\nExpression:")
	return b.String()
}
