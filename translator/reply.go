package translator

import "strings"

// ============================================================================
// REPLY CLEANING
// ============================================================================
// Models wrap answers in markdown fences no matter how firmly the prompt
// forbids it. The cleaner strips one surrounding fence pair and a leading
// language tag, and nothing more: mid-expression content is never touched.
// ============================================================================

// fenceTags are language markers models put on an opening fence line.
var fenceTags = []string{"python", "py", "polars", "pandas", "json", "text", "txt"}

// CleanReply reduces a raw model reply to the bare expression.
func CleanReply(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
		s = stripLanguageTag(s)
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return strings.TrimSpace(strings.Trim(s, "`"))
}

func stripLanguageTag(s string) string {
	for _, tag := range fenceTags {
		rest, ok := strings.CutPrefix(s, tag)
		if !ok {
			continue
		}
		if rest == "" || rest[0] == '\n' || rest[0] == '\r' || rest[0] == ' ' {
			return strings.TrimSpace(rest)
		}
	}
	return s
}
