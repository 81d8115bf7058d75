// Package html provides the text normalizer for markup-bearing field values.
package html

import (
	"regexp"
	"strings"

	"github.com/fwojciec/searchtext"
	"golang.org/x/net/html"
)

// Ensure Normalizer implements searchtext.Normalizer at compile time.
var _ searchtext.Normalizer = (*Normalizer)(nil)

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Normalizer converts markup-bearing strings into clean plain text.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize implements searchtext.Normalizer.
func (n *Normalizer) Normalize(raw string) string {
	return Normalize(raw)
}

// Normalize decodes entities, strips tags and collapses whitespace.
// A space is inserted before every tag so adjacent block elements do not
// glue their words together. The result is a fixed point of Normalize.
func Normalize(raw string) string {
	s := unescape(raw)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "<", " <")
	s = tagRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// unescape decodes entities until none are left, so double-encoded input
// such as "&amp;lt;" ends up fully decoded.
func unescape(s string) string {
	for strings.Contains(s, "&") {
		next := html.UnescapeString(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}
