package transform

import (
	"context"

	"github.com/fwojciec/searchtext"
)

// RelatedTitles returns the titles of the entries related through the
// entry's field handle. Unresolved entries are reported and skipped.
func (t *Transformer) RelatedTitles(ctx context.Context, entry *searchtext.Entry, handle string) ([]string, error) {
	if entry == nil {
		return nil, nil
	}

	v, ok := entry.Fields.Get(handle)
	if !ok {
		return nil, nil
	}

	fv := searchtext.Classify(v)
	if fv.Kind != searchtext.KindRelatedEntry && fv.Kind != searchtext.KindRelatedEntryList {
		return nil, nil
	}

	titles := make([]string, 0, len(fv.Refs))
	for _, ref := range fv.Refs {
		related, err := t.findEntry(ctx, ref)
		if err != nil {
			return nil, err
		}
		if related == nil {
			continue
		}
		titles = append(titles, related.Title)
	}
	return titles, nil
}

// FirstImage returns the URL of the first image in the entry's field
// handle, or "" if there is none.
func (t *Transformer) FirstImage(ctx context.Context, entry *searchtext.Entry, handle string) (string, error) {
	urls, err := t.ImageURLs(ctx, entry, handle)
	if err != nil || len(urls) == 0 {
		return "", err
	}
	return urls[0], nil
}

// ImageURLs returns the URLs of the images in the entry's field handle.
// Asset fields yield their image-kind assets; rich-text fields yield the
// sources of embedded images and require an ImageExtractor.
func (t *Transformer) ImageURLs(ctx context.Context, entry *searchtext.Entry, handle string) ([]string, error) {
	if entry == nil {
		return nil, nil
	}

	v, ok := entry.Fields.Get(handle)
	if !ok || v == nil {
		return nil, nil
	}

	switch v := v.(type) {
	case searchtext.Asset:
		return imageURLs([]searchtext.Asset{v}), nil
	case []searchtext.Asset:
		return imageURLs(v), nil
	case searchtext.RichText:
		if t.Images == nil {
			return nil, searchtext.Errorf(searchtext.ECONFIG, "image extractor not configured")
		}
		return t.Images.ImageURLs(v.RawHTML())
	}
	return nil, nil
}

func imageURLs(assets []searchtext.Asset) []string {
	var urls []string
	for _, a := range assets {
		if a.Kind == searchtext.AssetKindImage && a.URL != "" {
			urls = append(urls, a.URL)
		}
	}
	return urls
}
