package mock

import "github.com/fwojciec/searchtext"

var _ searchtext.ImageExtractor = (*ImageExtractor)(nil)

// ImageExtractor is a mock implementation of searchtext.ImageExtractor.
type ImageExtractor struct {
	ImageURLsFn func(html string) ([]string, error)
}

func (e *ImageExtractor) ImageURLs(html string) ([]string, error) {
	return e.ImageURLsFn(html)
}
