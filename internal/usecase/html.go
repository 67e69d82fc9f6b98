package usecase

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var blankLinesRegex = regexp.MustCompile(`\n\s*\n`)

// StripHTML reduces an answer engine response to plain text, keeping a line break
// where each block element started.
func StripHTML(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return strings.TrimSpace(text)
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("\n")
	})

	plain := blankLinesRegex.ReplaceAllString(doc.Text(), "\n\n")
	return strings.TrimSpace(plain)
}
