package searchtext

import "context"

// ContentStore resolves entries and blocks from the content host.
type ContentStore interface {
	// FindEntry retrieves an entry with its field set.
	// Returns ENOTFOUND if the entry does not exist.
	FindEntry(ctx context.Context, id EntryRef) (*Entry, error)

	// FindBlockFields retrieves the field set of a matrix block.
	// Returns ENOTFOUND if the block does not exist.
	FindBlockFields(ctx context.Context, blockID, siteID string) (FieldSet, error)
}

// AssetRef identifies a spreadsheet asset.
type AssetRef string

// SpreadsheetSource reads the rows of a spreadsheet asset.
type SpreadsheetSource interface {
	// RowsFromAsset returns the asset's content as a nested array of
	// scalars and arrays (sheets, rows, cells).
	// Returns ENOTFOUND if the asset does not exist.
	RowsFromAsset(ctx context.Context, asset AssetRef) ([]any, error)
}

// Normalizer converts markup-bearing text to clean plain text.
type Normalizer interface {
	// Normalize is pure and idempotent.
	Normalize(raw string) string
}

// ImageExtractor finds image URLs embedded in rich text.
type ImageExtractor interface {
	ImageURLs(html string) ([]string, error)
}

// EntryService manages the locally imported copy of host content.
type EntryService interface {
	// SaveEntry creates or replaces an entry and its blocks.
	SaveEntry(ctx context.Context, entry *Entry) error

	// FindEntryIDs returns the IDs of all stored entries in ID order.
	FindEntryIDs(ctx context.Context) ([]EntryRef, error)

	// DeleteEntry removes an entry and its blocks.
	// Returns ENOTFOUND if the entry does not exist.
	DeleteEntry(ctx context.Context, id EntryRef) error
}
