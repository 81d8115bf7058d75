// Package ratelimit throttles content store lookups.
package ratelimit

import (
	"context"

	"github.com/fwojciec/searchtext"
	"golang.org/x/time/rate"
)

var _ searchtext.ContentStore = (*ContentStore)(nil)

// ContentStore wraps a ContentStore with a token bucket. Entry and block
// lookups from all goroutines share one bucket.
type ContentStore struct {
	next    searchtext.ContentStore
	limiter *rate.Limiter
}

// NewContentStore creates a ContentStore allowing rps lookups per second
// with a burst of 1. A non-positive rps disables throttling.
func NewContentStore(next searchtext.ContentStore, rps float64) *ContentStore {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &ContentStore{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// FindEntry waits for a token, then delegates.
// Returns the context error if ctx is canceled while waiting.
func (s *ContentStore) FindEntry(ctx context.Context, id searchtext.EntryRef) (*searchtext.Entry, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.FindEntry(ctx, id)
}

// FindBlockFields waits for a token, then delegates.
func (s *ContentStore) FindBlockFields(ctx context.Context, blockID, siteID string) (searchtext.FieldSet, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.FindBlockFields(ctx, blockID, siteID)
}
