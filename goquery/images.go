// Package goquery extracts embedded resources from rich-text field values.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/searchtext"
)

// Ensure ImageExtractor implements searchtext.ImageExtractor at compile time.
var _ searchtext.ImageExtractor = (*ImageExtractor)(nil)

// ImageExtractor finds image sources in rich-text markup.
type ImageExtractor struct{}

// NewImageExtractor creates a new ImageExtractor.
func NewImageExtractor() *ImageExtractor {
	return &ImageExtractor{}
}

// ImageURLs returns the src of every <img> element in document order.
// Duplicates and data: URIs are dropped.
func (e *ImageExtractor) ImageURLs(html string) ([]string, error) {
	if strings.TrimSpace(html) == "" {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, searchtext.Errorf(searchtext.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var urls []string
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src := strings.TrimSpace(sel.AttrOr("src", ""))
		if src == "" || seen[src] || strings.HasPrefix(strings.ToLower(src), "data:") {
			return
		}
		seen[src] = true
		urls = append(urls, src)
	})

	return urls, nil
}
