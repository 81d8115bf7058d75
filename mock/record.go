package mock

import (
	"context"

	"github.com/fwojciec/searchtext"
)

var _ searchtext.RecordWriter = (*RecordWriter)(nil)

// RecordWriter is a mock implementation of searchtext.RecordWriter.
type RecordWriter struct {
	WriteRecordsFn func(ctx context.Context, entryID searchtext.EntryRef, records []*searchtext.Record) error
}

func (w *RecordWriter) WriteRecords(ctx context.Context, entryID searchtext.EntryRef, records []*searchtext.Record) error {
	return w.WriteRecordsFn(ctx, entryID, records)
}
