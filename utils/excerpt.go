package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLExcerpt strips markup from article HTML and returns the first
// maxLen characters of plain text, cut at a word boundary. Returns the
// input unchanged if it does not parse as HTML.
func HTMLExcerpt(html string, maxLen int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return truncateAtWord(html, maxLen)
	}

	doc.Find("script, style").Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")
	return truncateAtWord(text, maxLen)
}

func truncateAtWord(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	cut := s[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
