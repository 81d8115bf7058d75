package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/searchtext"
)

// Ensure LoggingRecordWriter implements searchtext.RecordWriter.
var _ searchtext.RecordWriter = (*LoggingRecordWriter)(nil)

// LoggingRecordWriter wraps a RecordWriter with logging.
type LoggingRecordWriter struct {
	next   searchtext.RecordWriter
	logger *slog.Logger
}

// NewLoggingRecordWriter creates a new LoggingRecordWriter.
func NewLoggingRecordWriter(next searchtext.RecordWriter, logger *slog.Logger) *LoggingRecordWriter {
	return &LoggingRecordWriter{next: next, logger: logger}
}

// WriteRecords delegates to the wrapped writer and logs the write.
func (w *LoggingRecordWriter) WriteRecords(ctx context.Context, entryID searchtext.EntryRef, records []*searchtext.Record) (err error) {
	defer func(begin time.Time) {
		w.logger.Info("write records",
			"entry", string(entryID),
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteRecords(ctx, entryID, records)
}
