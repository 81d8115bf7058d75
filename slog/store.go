// Package slog provides decorators that log content lookups with log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/searchtext"
)

// Ensure LoggingContentStore implements searchtext.ContentStore.
var _ searchtext.ContentStore = (*LoggingContentStore)(nil)

// LoggingContentStore wraps a ContentStore with debug logging.
type LoggingContentStore struct {
	next   searchtext.ContentStore
	logger *slog.Logger
}

// NewLoggingContentStore creates a new LoggingContentStore.
func NewLoggingContentStore(next searchtext.ContentStore, logger *slog.Logger) *LoggingContentStore {
	return &LoggingContentStore{next: next, logger: logger}
}

// FindEntry delegates to the wrapped store and logs the lookup.
func (s *LoggingContentStore) FindEntry(ctx context.Context, id searchtext.EntryRef) (entry *searchtext.Entry, err error) {
	defer func(begin time.Time) {
		fields := 0
		if entry != nil {
			fields = len(entry.Fields)
		}
		s.logger.Info("find entry",
			"id", string(id),
			"fields", fields,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindEntry(ctx, id)
}

// FindBlockFields delegates to the wrapped store and logs the lookup.
func (s *LoggingContentStore) FindBlockFields(ctx context.Context, blockID, siteID string) (fields searchtext.FieldSet, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find block fields",
			"block", blockID,
			"site", siteID,
			"fields", len(fields),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindBlockFields(ctx, blockID, siteID)
}
