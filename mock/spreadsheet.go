package mock

import (
	"context"

	"github.com/fwojciec/searchtext"
)

var _ searchtext.SpreadsheetSource = (*SpreadsheetSource)(nil)

// SpreadsheetSource is a mock implementation of searchtext.SpreadsheetSource.
type SpreadsheetSource struct {
	RowsFromAssetFn func(ctx context.Context, asset searchtext.AssetRef) ([]any, error)
}

func (s *SpreadsheetSource) RowsFromAsset(ctx context.Context, asset searchtext.AssetRef) ([]any, error) {
	return s.RowsFromAssetFn(ctx, asset)
}
