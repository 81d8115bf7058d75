package mock

import (
	"context"

	"github.com/fwojciec/searchtext"
)

var _ searchtext.ContentStore = (*ContentStore)(nil)

// ContentStore is a mock implementation of searchtext.ContentStore.
type ContentStore struct {
	FindEntryFn       func(ctx context.Context, id searchtext.EntryRef) (*searchtext.Entry, error)
	FindBlockFieldsFn func(ctx context.Context, blockID, siteID string) (searchtext.FieldSet, error)
}

func (s *ContentStore) FindEntry(ctx context.Context, id searchtext.EntryRef) (*searchtext.Entry, error) {
	return s.FindEntryFn(ctx, id)
}

func (s *ContentStore) FindBlockFields(ctx context.Context, blockID, siteID string) (searchtext.FieldSet, error) {
	return s.FindBlockFieldsFn(ctx, blockID, siteID)
}
