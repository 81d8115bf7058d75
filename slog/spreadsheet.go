package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/searchtext"
)

// Ensure LoggingSpreadsheetSource implements searchtext.SpreadsheetSource.
var _ searchtext.SpreadsheetSource = (*LoggingSpreadsheetSource)(nil)

// LoggingSpreadsheetSource wraps a SpreadsheetSource with debug logging.
type LoggingSpreadsheetSource struct {
	next   searchtext.SpreadsheetSource
	logger *slog.Logger
}

// NewLoggingSpreadsheetSource creates a new LoggingSpreadsheetSource.
func NewLoggingSpreadsheetSource(next searchtext.SpreadsheetSource, logger *slog.Logger) *LoggingSpreadsheetSource {
	return &LoggingSpreadsheetSource{next: next, logger: logger}
}

// RowsFromAsset delegates to the wrapped source and logs the read.
func (s *LoggingSpreadsheetSource) RowsFromAsset(ctx context.Context, asset searchtext.AssetRef) (sheets []any, err error) {
	defer func(begin time.Time) {
		s.logger.Info("read spreadsheet",
			"asset", string(asset),
			"sheets", len(sheets),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.RowsFromAsset(ctx, asset)
}
