package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// PreviewLength is the number of characters kept in a text preview.
const PreviewLength = 1000

var ErrNoPreformattedText = errors.New("document has no <pre> block")

// ExtractPreformatted returns the text of the first <pre> element. Text
// fragments are trimmed and joined with single spaces.
func ExtractPreformatted(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	pre := doc.Find("pre").First()
	if pre.Length() == 0 {
		return "", ErrNoPreformattedText
	}

	var parts []string
	collectText(pre, &parts)
	return strings.Join(parts, " "), nil
}

func collectText(sel *goquery.Selection, parts *[]string) {
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			if text := strings.TrimSpace(node.Text()); text != "" {
				*parts = append(*parts, text)
			}
			return
		}
		collectText(node, parts)
	})
}

// Preview truncates text to limit characters and marks the cut with "...".
func Preview(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + "..."
}
