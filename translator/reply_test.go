package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanReply(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare expression", "df.head(5)", "df.head(5)"},
		{"surrounding whitespace", "  df.head(5)\n", "df.head(5)"},
		{"fenced with language tag", "```python\ndf.filter(col('price') < 5)\n```", "df.filter(col('price') < 5)"},
		{"fenced without tag", "```\ndf.head(5)\n```", "df.head(5)"},
		{"one-line fence", "```df.head(5)```", "df.head(5)"},
		{"single backticks", "`df.head(5)`", "df.head(5)"},
		{"tag with space", "```py df.head(5)```", "df.head(5)"},
		{"empty", "", ""},
		{"fence only", "```\n```", ""},
		{"tag-like expression survives", "df.filter(col('brand').str.contains('python'))", "df.filter(col('brand').str.contains('python'))"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanReply(tc.in))
		})
	}
}
