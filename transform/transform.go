// Package transform reduces content entries, matrix blocks and spreadsheet
// assets to normalized, search-indexable text.
// It coordinates classification, relation lookups against the content
// store, normalization and chunking.
package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/searchtext"
	"github.com/fwojciec/searchtext/html"
)

// Transformer extracts search text from content. It holds no mutable state
// and is safe for concurrent use when its collaborators are.
type Transformer struct {
	Store        searchtext.ContentStore
	Normalizer   searchtext.Normalizer
	Spreadsheets searchtext.SpreadsheetSource
	Images       searchtext.ImageExtractor

	// Report receives non-fatal conditions such as unresolved references.
	Report DiagnosticFunc
}

// Item kinds reported in diagnostics.
const (
	ItemEntry = "entry"
	ItemBlock = "block"
)

// Diagnostic reports an item that was skipped during extraction.
type Diagnostic struct {
	Item string
	ID   string
	Err  error
}

// DiagnosticFunc is a callback for reporting skipped items.
type DiagnosticFunc func(d Diagnostic)

// ExtractEntryText flattens the entry's fields accepted by filter,
// following related entries one level deep.
func (t *Transformer) ExtractEntryText(ctx context.Context, entry *searchtext.Entry, filter searchtext.IncludeFilter) (string, error) {
	if entry == nil {
		return "", searchtext.Errorf(searchtext.EINVALID, "entry required")
	}
	return t.FlattenFields(ctx, entry.Fields, filter, true)
}

// FlattenFields reduces fields to one normalized string. Only handles
// accepted by filter contribute. When followRelated is set, related entries
// are resolved and flattened with followRelated off, so relations are
// followed exactly one level deep.
func (t *Transformer) FlattenFields(ctx context.Context, fields searchtext.FieldSet, filter searchtext.IncludeFilter, followRelated bool) (string, error) {
	if err := filter.Validate(); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if !filter.Accepts(f.Handle) {
			continue
		}
		text, err := t.flattenValue(ctx, searchtext.Classify(f.Value), followRelated)
		if err != nil {
			return "", fmt.Errorf("field %q: %w", f.Handle, err)
		}
		parts = append(parts, text)
	}

	return t.normalize(strings.Join(parts, " ")), nil
}

func (t *Transformer) flattenValue(ctx context.Context, v searchtext.FieldValue, followRelated bool) (string, error) {
	switch v.Kind {
	case searchtext.KindPlainText:
		return v.Text, nil
	case searchtext.KindRelatedEntry, searchtext.KindRelatedEntryList:
		if !followRelated {
			return "", nil
		}
		parts := make([]string, 0, len(v.Refs))
		for _, ref := range v.Refs {
			text, err := t.relatedText(ctx, ref)
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
		}
		return strings.Join(parts, " "), nil
	case searchtext.KindNestedList:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			text, err := t.flattenValue(ctx, item, followRelated)
			if err != nil {
				return "", err
			}
			parts = append(parts, text)
		}
		return strings.Join(parts, " "), nil
	default:
		return "", nil
	}
}

// relatedText flattens all fields of a related entry without following
// its own relations.
func (t *Transformer) relatedText(ctx context.Context, ref searchtext.EntryRef) (string, error) {
	entry, err := t.findEntry(ctx, ref)
	if err != nil || entry == nil {
		return "", err
	}
	return t.FlattenFields(ctx, entry.Fields, searchtext.All(), false)
}

// findEntry resolves ref. Lookup failures are reported and yield nil;
// only cancellation of ctx is returned.
func (t *Transformer) findEntry(ctx context.Context, ref searchtext.EntryRef) (*searchtext.Entry, error) {
	if t.Store == nil {
		return nil, searchtext.Errorf(searchtext.ECONFIG, "content store not configured")
	}
	entry, err := t.Store.FindEntry(ctx, ref)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		t.report(Diagnostic{Item: ItemEntry, ID: string(ref), Err: err})
		return nil, nil
	}
	return entry, nil
}

// ExtractMatrixText extracts the blocks of the entry's matrix field handle
// whose type handles filter accepts. A missing or empty field yields "".
func (t *Transformer) ExtractMatrixText(ctx context.Context, entry *searchtext.Entry, handle string, filter searchtext.IncludeFilter) (string, error) {
	if entry == nil {
		return "", searchtext.Errorf(searchtext.EINVALID, "entry required")
	}

	v, ok := entry.Fields.Get(handle)
	if !ok || v == nil {
		return "", nil
	}

	blocks, ok := searchtext.AsBlocks(v)
	if !ok {
		return "", searchtext.Errorf(searchtext.EINVALID, "field %q is not a matrix field", handle)
	}

	return t.ExtractBlocksText(ctx, blocks, filter)
}

// ExtractBlocksText flattens every block whose type handle filter accepts.
// Blocks without fields are resolved through the content store; blocks the
// store cannot resolve are reported and skipped.
func (t *Transformer) ExtractBlocksText(ctx context.Context, blocks []searchtext.Block, filter searchtext.IncludeFilter) (string, error) {
	if err := filter.Validate(); err != nil {
		return "", err
	}

	var parts []string
	for _, block := range blocks {
		if !filter.Accepts(block.TypeHandle) {
			continue
		}

		fields := block.Fields
		if fields == nil {
			var err error
			fields, err = t.findBlockFields(ctx, block)
			if err != nil {
				return "", err
			}
			if fields == nil {
				continue
			}
		}

		text, err := t.FlattenFields(ctx, fields, searchtext.All(), true)
		if err != nil {
			return "", fmt.Errorf("block %q: %w", block.ID, err)
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	return t.normalize(strings.Join(parts, " ")), nil
}

func (t *Transformer) findBlockFields(ctx context.Context, block searchtext.Block) (searchtext.FieldSet, error) {
	if t.Store == nil {
		return nil, searchtext.Errorf(searchtext.ECONFIG, "content store not configured")
	}
	fields, err := t.Store.FindBlockFields(ctx, block.ID, block.SiteID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		t.report(Diagnostic{Item: ItemBlock, ID: block.ID, Err: err})
		return nil, nil
	}
	if fields == nil {
		fields = searchtext.FieldSet{}
	}
	return fields, nil
}

// ChunkText normalizes text and splits it into chunks of at most maxSize
// code points.
func (t *Transformer) ChunkText(text string, maxSize int) ([]string, error) {
	if maxSize <= 0 {
		return nil, searchtext.Errorf(searchtext.EINVALID, "chunk size must be positive, got %d", maxSize)
	}
	return searchtext.Split(t.normalize(text), maxSize)
}

// ExtractSpreadsheetText flattens every cell of a spreadsheet asset.
// Returns ECONFIG if no spreadsheet source is configured.
func (t *Transformer) ExtractSpreadsheetText(ctx context.Context, asset searchtext.AssetRef) (string, error) {
	if t.Spreadsheets == nil {
		return "", searchtext.Errorf(searchtext.ECONFIG, "spreadsheet source not configured")
	}

	rows, err := t.Spreadsheets.RowsFromAsset(ctx, asset)
	if err != nil {
		return "", err
	}

	text, err := t.flattenValue(ctx, searchtext.Classify(rows), false)
	if err != nil {
		return "", err
	}
	return t.normalize(text), nil
}

// EntryRecords extracts the entry's text and splits it into index records.
func (t *Transformer) EntryRecords(ctx context.Context, entry *searchtext.Entry, filter searchtext.IncludeFilter, maxSize int) ([]*searchtext.Record, error) {
	text, err := t.ExtractEntryText(ctx, entry, filter)
	if err != nil {
		return nil, err
	}

	chunks, err := searchtext.Split(text, maxSize)
	if err != nil {
		return nil, err
	}

	records := make([]*searchtext.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = &searchtext.Record{
			ObjectID: searchtext.RecordObjectID(entry.ID, i),
			EntryID:  entry.ID,
			Position: i,
			Content:  chunk,
			Hash:     computeHash(chunk),
		}
	}
	return records, nil
}

// computeHash computes a hash of the content using xxhash.
func computeHash(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

func (t *Transformer) normalize(s string) string {
	if t.Normalizer == nil {
		return html.Normalize(s)
	}
	return t.Normalizer.Normalize(s)
}

func (t *Transformer) report(d Diagnostic) {
	if t.Report != nil {
		t.Report(d)
	}
}
