package engine

import (
	"fmt"
	"regexp"

	"github.com/tillerhq/tiller/schema"
)

// ============================================================================
// COLUMN RESOLVER — expression text → ordered display columns
// ============================================================================
// The generated expression tells us which columns the user cared about:
// whatever it referenced through col('...') or df['...']. Extraction is
// plain regex over the literal text — the resolver never needs the AST,
// and unknown names simply drop out.
//
// Display order is fixed by role, not by reference order: a name-like
// column first, then a price-like one, then a year-like one, then the
// remaining referenced columns as they appeared. The role picks come from
// the result's own columns, so resolving is idempotent and indifferent to
// how the expression ordered its references.
// ============================================================================

// DefaultResolverPatterns match the two ways expressions reference columns:
// the col('...') constructor (bare or namespaced) and df['...'] indexing.
// Capture group 1 is the column name.
var DefaultResolverPatterns = []string{
	`\bcol\( ?['"]([^'"]+)['"] ?\)`,
	`df\[ ?['"]([^'"]+)['"] ?\]`,
}

// displayRoles are placed first, in this order, when the result has them.
var displayRoles = []schema.Role{schema.RoleName, schema.RolePrice, schema.RoleYear}

// ColumnResolver picks and orders display columns for a result.
type ColumnResolver struct {
	aliases  schema.Config
	patterns []*regexp.Regexp
}

// NewColumnResolver compiles the extraction patterns. Empty patterns fall
// back to DefaultResolverPatterns.
func NewColumnResolver(aliases schema.Config, patterns ...string) (*ColumnResolver, error) {
	if len(patterns) == 0 {
		patterns = DefaultResolverPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bad resolver pattern %q: %w", p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("resolver pattern %q has no capture group", p)
		}
		compiled = append(compiled, re)
	}
	return &ColumnResolver{aliases: aliases, patterns: compiled}, nil
}

// Resolve returns the display columns for a result, in presentation order.
// An empty resultColumns list yields an empty display list — a result with
// no columns is different from a result with no rows.
func (r *ColumnResolver) Resolve(expr string, resultColumns []string) []string {
	if len(resultColumns) == 0 {
		return nil
	}

	display := make([]string, 0, len(resultColumns))
	seen := make(map[string]bool)

	for _, role := range displayRoles {
		if col, ok := r.aliases.FirstIn(role, resultColumns); ok && !seen[col] {
			display = append(display, col)
			seen[col] = true
		}
	}

	inResult := make(map[string]bool, len(resultColumns))
	for _, c := range resultColumns {
		inResult[c] = true
	}
	for _, name := range r.extract(expr) {
		if inResult[name] && !seen[name] {
			display = append(display, name)
			seen[name] = true
		}
	}
	return display
}

// extract pulls referenced column names from the expression text,
// first-seen order, duplicates removed.
func (r *ColumnResolver) extract(expr string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, re := range r.patterns {
		for _, m := range re.FindAllStringSubmatch(expr, -1) {
			name := m[1]
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
