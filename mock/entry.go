package mock

import (
	"context"

	"github.com/fwojciec/searchtext"
)

var _ searchtext.EntryService = (*EntryService)(nil)

// EntryService is a mock implementation of searchtext.EntryService.
type EntryService struct {
	SaveEntryFn    func(ctx context.Context, entry *searchtext.Entry) error
	FindEntryIDsFn func(ctx context.Context) ([]searchtext.EntryRef, error)
	DeleteEntryFn  func(ctx context.Context, id searchtext.EntryRef) error
}

func (s *EntryService) SaveEntry(ctx context.Context, entry *searchtext.Entry) error {
	return s.SaveEntryFn(ctx, entry)
}

func (s *EntryService) FindEntryIDs(ctx context.Context) ([]searchtext.EntryRef, error) {
	return s.FindEntryIDsFn(ctx)
}

func (s *EntryService) DeleteEntry(ctx context.Context, id searchtext.EntryRef) error {
	return s.DeleteEntryFn(ctx, id)
}
