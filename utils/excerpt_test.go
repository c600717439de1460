package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTMLExcerptStripsMarkup(t *testing.T) {
	html := `<article><h1>Monsoon Layers</h1><script>alert("x")</script>
		<p>Light   fabrics
		win.</p><style>p{color:red}</style></article>`

	assert.Equal(t, "Monsoon Layers Light fabrics win.", HTMLExcerpt(html, 200))
}

func TestHTMLExcerptTruncatesAtWord(t *testing.T) {
	text := "<p>The quick brown fox jumps over the lazy dog</p>"

	got := HTMLExcerpt(text, 18)
	assert.Equal(t, "The quick brown...", got)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestHTMLExcerptShortTextUntouched(t *testing.T) {
	assert.Equal(t, "Short note", HTMLExcerpt("Short note", 220))
	assert.Equal(t, "whole text", HTMLExcerpt("whole text", 0))
}
