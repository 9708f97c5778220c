package alerts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreviewText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii untouched", "hello", 120, "hello"},
		{"exact length untouched", strings.Repeat("a", 120), 120, strings.Repeat("a", 120)},
		{"long ascii truncated", strings.Repeat("a", 121), 120, strings.Repeat("a", 120) + "…"},
		{"multibyte untouched", strings.Repeat("é", 120), 120, strings.Repeat("é", 120)},
		{"multibyte truncated on rune boundary", strings.Repeat("é", 121), 120, strings.Repeat("é", 120) + "…"},
		{"cjk truncated", strings.Repeat("渲", 130), 120, strings.Repeat("渲", 120) + "…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := previewText(tc.in, tc.max)
			assert.Equal(t, tc.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
