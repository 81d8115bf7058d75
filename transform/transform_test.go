package transform_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/searchtext"
	"github.com/fwojciec/searchtext/mock"
	"github.com/fwojciec/searchtext/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newStore returns a content store serving the given entries and blocks.
func newStore(entries map[searchtext.EntryRef]*searchtext.Entry, blocks map[string]searchtext.FieldSet) *mock.ContentStore {
	return &mock.ContentStore{
		FindEntryFn: func(_ context.Context, id searchtext.EntryRef) (*searchtext.Entry, error) {
			if e, ok := entries[id]; ok {
				return e, nil
			}
			return nil, searchtext.Errorf(searchtext.ENOTFOUND, "entry %q not found", id)
		},
		FindBlockFieldsFn: func(_ context.Context, blockID, _ string) (searchtext.FieldSet, error) {
			if f, ok := blocks[blockID]; ok {
				return f, nil
			}
			return nil, searchtext.Errorf(searchtext.ENOTFOUND, "block %q not found", blockID)
		},
	}
}

// diagnostics collects reported diagnostics.
type diagnostics struct {
	mu    sync.Mutex
	items []transform.Diagnostic
}

func (d *diagnostics) report(diag transform.Diagnostic) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.items = append(d.items, diag)
}

func TestTransformer_ExtractEntryText(t *testing.T) {
	t.Parallel()

	t.Run("includes only filtered fields in order", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{
			{Handle: "summary", Value: "Summary text."},
			{Handle: "internalNote", Value: "secret"},
			{Handle: "body", Value: searchtext.HTML("<p>Body&nbsp;copy</p><p>more</p>")},
		}}

		text, err := tr.ExtractEntryText(context.Background(), entry, searchtext.Only("body", "summary"))

		require.NoError(t, err)
		assert.Equal(t, "Summary text. Body copy more", text)
	})

	t.Run("follows relations exactly one level deep", func(t *testing.T) {
		t.Parallel()

		c := &searchtext.Entry{ID: "C", Title: "C", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "text from C"},
		}}
		b := &searchtext.Entry{ID: "B", Title: "B", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "text from B"},
			{Handle: "related", Value: searchtext.EntryRef("C")},
		}}
		a := &searchtext.Entry{ID: "A", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "text from A"},
			{Handle: "related", Value: []searchtext.EntryRef{"B"}},
		}}
		tr := &transform.Transformer{
			Store: newStore(map[searchtext.EntryRef]*searchtext.Entry{"A": a, "B": b, "C": c}, nil),
		}

		text, err := tr.ExtractEntryText(context.Background(), a, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "text from A text from B", text)
		assert.NotContains(t, text, "text from C")
	})

	t.Run("mutually related entries terminate", func(t *testing.T) {
		t.Parallel()

		a := &searchtext.Entry{ID: "A", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "alpha"},
			{Handle: "related", Value: searchtext.EntryRef("B")},
		}}
		b := &searchtext.Entry{ID: "B", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "beta"},
			{Handle: "related", Value: searchtext.EntryRef("A")},
		}}
		tr := &transform.Transformer{
			Store: newStore(map[searchtext.EntryRef]*searchtext.Entry{"A": a, "B": b}, nil),
		}

		text, err := tr.ExtractEntryText(context.Background(), a, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "alpha beta", text)
	})

	t.Run("unsupported values degrade to empty text", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{
			{Handle: "location", Value: map[string]any{"lat": 1.5}},
			{Handle: "greeting", Value: "hello"},
		}}

		text, err := tr.ExtractEntryText(context.Background(), entry, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "hello", text)
	})

	t.Run("empty only filter includes nothing", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "hello"},
		}}

		text, err := tr.ExtractEntryText(context.Background(), entry, searchtext.Only())

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("nested lists flatten recursively", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{
			{Handle: "table", Value: []any{
				[]any{"Name", "Price"},
				[]any{"Widget", 9.5, nil},
			}},
		}}

		text, err := tr.ExtractEntryText(context.Background(), entry, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "Name Price Widget 9.5", text)
	})

	t.Run("reports missing related entries and continues", func(t *testing.T) {
		t.Parallel()

		b := &searchtext.Entry{ID: "B", Fields: searchtext.FieldSet{{Handle: "body", Value: "beta"}}}
		diags := &diagnostics{}
		tr := &transform.Transformer{
			Store:  newStore(map[searchtext.EntryRef]*searchtext.Entry{"B": b}, nil),
			Report: diags.report,
		}
		entry := &searchtext.Entry{ID: "A", Fields: searchtext.FieldSet{
			{Handle: "related", Value: []searchtext.EntryRef{"gone", "B"}},
		}}

		text, err := tr.ExtractEntryText(context.Background(), entry, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "beta", text)
		require.Len(t, diags.items, 1)
		assert.Equal(t, transform.ItemEntry, diags.items[0].Item)
		assert.Equal(t, "gone", diags.items[0].ID)
		assert.Equal(t, searchtext.ENOTFOUND, searchtext.ErrorCode(diags.items[0].Err))
	})

	t.Run("reports store failures and keeps other fields", func(t *testing.T) {
		t.Parallel()

		diags := &diagnostics{}
		tr := &transform.Transformer{
			Store: &mock.ContentStore{
				FindEntryFn: func(context.Context, searchtext.EntryRef) (*searchtext.Entry, error) {
					return nil, errors.New("connection reset")
				},
			},
			Report: diags.report,
		}
		entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "hello"},
			{Handle: "rel", Value: searchtext.EntryRef("2")},
		}}

		text, err := tr.ExtractEntryText(context.Background(), entry, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "hello", text)
		require.Len(t, diags.items, 1)
		assert.Equal(t, transform.ItemEntry, diags.items[0].Item)
		assert.Equal(t, "2", diags.items[0].ID)
		assert.EqualError(t, diags.items[0].Err, "connection reset")
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		diags := &diagnostics{}
		tr := &transform.Transformer{
			Store: &mock.ContentStore{
				FindEntryFn: func(ctx context.Context, _ searchtext.EntryRef) (*searchtext.Entry, error) {
					return nil, ctx.Err()
				},
			},
			Report: diags.report,
		}
		entry := &searchtext.Entry{ID: "A", Fields: searchtext.FieldSet{
			{Handle: "related", Value: searchtext.EntryRef("B")},
		}}

		_, err := tr.ExtractEntryText(ctx, entry, searchtext.All())

		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, diags.items)
	})

	t.Run("returns EINVALID for nil entry", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		_, err := tr.ExtractEntryText(context.Background(), nil, searchtext.All())

		assert.Equal(t, searchtext.EINVALID, searchtext.ErrorCode(err))
	})

	t.Run("returns EINVALID for filter without policy", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "1"}
		_, err := tr.ExtractEntryText(context.Background(), entry, searchtext.IncludeFilter{})

		assert.Equal(t, searchtext.EINVALID, searchtext.ErrorCode(err))
	})

	t.Run("uses configured normalizer", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{
			Normalizer: &mock.Normalizer{NormalizeFn: func(raw string) string { return "[" + raw + "]" }},
		}
		entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{{Handle: "body", Value: "x"}}}

		text, err := tr.ExtractEntryText(context.Background(), entry, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "[x]", text)
	})

	t.Run("does not mutate the entry", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		fields := searchtext.FieldSet{{Handle: "body", Value: "<b>x</b>"}}
		entry := &searchtext.Entry{ID: "1", Fields: fields}

		_, err := tr.ExtractEntryText(context.Background(), entry, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, searchtext.FieldSet{{Handle: "body", Value: "<b>x</b>"}}, entry.Fields)
	})
}

func TestTransformer_FlattenFields(t *testing.T) {
	t.Parallel()

	t.Run("skips relations when not following", func(t *testing.T) {
		t.Parallel()

		called := false
		tr := &transform.Transformer{
			Store: &mock.ContentStore{
				FindEntryFn: func(context.Context, searchtext.EntryRef) (*searchtext.Entry, error) {
					called = true
					return nil, nil
				},
			},
		}
		fields := searchtext.FieldSet{
			{Handle: "body", Value: "text"},
			{Handle: "related", Value: searchtext.EntryRef("B")},
		}

		text, err := tr.FlattenFields(context.Background(), fields, searchtext.All(), false)

		require.NoError(t, err)
		assert.Equal(t, "text", text)
		assert.False(t, called)
	})

	t.Run("returns ECONFIG when relations need a missing store", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		fields := searchtext.FieldSet{{Handle: "related", Value: searchtext.EntryRef("B")}}

		_, err := tr.FlattenFields(context.Background(), fields, searchtext.All(), true)

		assert.Equal(t, searchtext.ECONFIG, searchtext.ErrorCode(err))
	})
}

func TestTransformer_ExtractMatrixText(t *testing.T) {
	t.Parallel()

	blockFields := map[string]searchtext.FieldSet{
		"b1": {{Handle: "text", Value: searchtext.HTML("<p>First block</p>")}},
		"b2": {{Handle: "quote", Value: "Quoted"}, {Handle: "author", Value: "Someone"}},
		"b3": {{Handle: "image", Value: []searchtext.Asset{{ID: "a1", Kind: searchtext.AssetKindImage}}}},
	}
	entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{
		{Handle: "title", Value: "Title"},
		{Handle: "content", Value: []searchtext.Block{
			{ID: "b1", TypeHandle: "text"},
			{ID: "b2", TypeHandle: "quote"},
			{ID: "b3", TypeHandle: "image"},
		}},
	}}

	t.Run("extracts accepted block types", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{Store: newStore(nil, blockFields)}

		text, err := tr.ExtractMatrixText(context.Background(), entry, "content", searchtext.Only("text", "quote"))

		require.NoError(t, err)
		assert.Equal(t, "First block Quoted Someone", text)
	})

	t.Run("filter excluding all block types yields empty text", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{Store: newStore(nil, blockFields)}

		text, err := tr.ExtractMatrixText(context.Background(), entry, "content", searchtext.Only("gallery"))

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("missing field yields empty text", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{Store: newStore(nil, blockFields)}

		text, err := tr.ExtractMatrixText(context.Background(), entry, "nope", searchtext.All())

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("returns EINVALID for a field that is not a matrix", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{Store: newStore(nil, blockFields)}

		_, err := tr.ExtractMatrixText(context.Background(), entry, "title", searchtext.All())

		assert.Equal(t, searchtext.EINVALID, searchtext.ErrorCode(err))
	})

	t.Run("returns EINVALID for nil entry", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}

		_, err := tr.ExtractMatrixText(context.Background(), nil, "content", searchtext.All())

		assert.Equal(t, searchtext.EINVALID, searchtext.ErrorCode(err))
	})
}

func TestTransformer_ExtractBlocksText(t *testing.T) {
	t.Parallel()

	t.Run("skips unresolvable blocks and reports them", func(t *testing.T) {
		t.Parallel()

		diags := &diagnostics{}
		tr := &transform.Transformer{
			Store: newStore(nil, map[string]searchtext.FieldSet{
				"b2": {{Handle: "text", Value: "still here"}},
			}),
			Report: diags.report,
		}
		blocks := []searchtext.Block{
			{ID: "stale", TypeHandle: "text"},
			{ID: "b2", TypeHandle: "text"},
		}

		text, err := tr.ExtractBlocksText(context.Background(), blocks, searchtext.Only("text"))

		require.NoError(t, err)
		assert.Equal(t, "still here", text)
		require.Len(t, diags.items, 1)
		assert.Equal(t, transform.ItemBlock, diags.items[0].Item)
		assert.Equal(t, "stale", diags.items[0].ID)
	})

	t.Run("uses inline block fields without a lookup", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		blocks := []searchtext.Block{
			{ID: "b1", TypeHandle: "text", Fields: searchtext.FieldSet{{Handle: "text", Value: "inline"}}},
		}

		text, err := tr.ExtractBlocksText(context.Background(), blocks, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "inline", text)
	})

	t.Run("follows relations inside blocks one level deep", func(t *testing.T) {
		t.Parallel()

		related := &searchtext.Entry{ID: "R", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "related body"},
			{Handle: "more", Value: searchtext.EntryRef("X")},
		}}
		deeper := &searchtext.Entry{ID: "X", Fields: searchtext.FieldSet{{Handle: "body", Value: "too deep"}}}
		tr := &transform.Transformer{
			Store: newStore(map[searchtext.EntryRef]*searchtext.Entry{"R": related, "X": deeper}, map[string]searchtext.FieldSet{
				"b1": {{Handle: "entries", Value: []searchtext.EntryRef{"R"}}},
			}),
		}

		text, err := tr.ExtractBlocksText(context.Background(), []searchtext.Block{{ID: "b1", TypeHandle: "cards"}}, searchtext.Only("cards"))

		require.NoError(t, err)
		assert.Equal(t, "related body", text)
	})

	t.Run("reports store failures and keeps other blocks", func(t *testing.T) {
		t.Parallel()

		diags := &diagnostics{}
		tr := &transform.Transformer{
			Store: &mock.ContentStore{
				FindBlockFieldsFn: func(_ context.Context, blockID, _ string) (searchtext.FieldSet, error) {
					if blockID == "b1" {
						return nil, errors.New("malformed block fields")
					}
					return searchtext.FieldSet{{Handle: "text", Value: "kept"}}, nil
				},
			},
			Report: diags.report,
		}
		blocks := []searchtext.Block{
			{ID: "b1", TypeHandle: "text"},
			{ID: "b2", TypeHandle: "text"},
		}

		text, err := tr.ExtractBlocksText(context.Background(), blocks, searchtext.All())

		require.NoError(t, err)
		assert.Equal(t, "kept", text)
		require.Len(t, diags.items, 1)
		assert.Equal(t, transform.ItemBlock, diags.items[0].Item)
		assert.Equal(t, "b1", diags.items[0].ID)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tr := &transform.Transformer{
			Store: &mock.ContentStore{
				FindBlockFieldsFn: func(ctx context.Context, _, _ string) (searchtext.FieldSet, error) {
					return nil, ctx.Err()
				},
			},
		}

		_, err := tr.ExtractBlocksText(ctx, []searchtext.Block{{ID: "b1", TypeHandle: "text"}}, searchtext.All())

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTransformer_ChunkText(t *testing.T) {
	t.Parallel()

	t.Run("normalizes before chunking", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}

		chunks, err := tr.ChunkText("<p>aaaa</p>\n<p>bbbb</p> cccc&nbsp;dddd", 9)

		require.NoError(t, err)
		assert.Equal(t, []string{"aaaa", "… bbbb", "… cccc", "… dddd"}, chunks)
	})

	t.Run("reconstructs normalized input", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		raw := "<h1>Title</h1><p>Some &amp; more text that goes on for a while</p>"

		chunks, err := tr.ChunkText(raw, 7)

		require.NoError(t, err)
		assert.Equal(t, "Title Some & more text that goes on for a while", searchtext.Join(chunks))
	})

	t.Run("returns EINVALID for non-positive size", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}

		_, err := tr.ChunkText("text", 0)

		assert.Equal(t, searchtext.EINVALID, searchtext.ErrorCode(err))
	})
}

func TestTransformer_ExtractSpreadsheetText(t *testing.T) {
	t.Parallel()

	t.Run("flattens rows", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{
			Spreadsheets: &mock.SpreadsheetSource{
				RowsFromAssetFn: func(_ context.Context, asset searchtext.AssetRef) ([]any, error) {
					assert.Equal(t, searchtext.AssetRef("prices.xlsx"), asset)
					return []any{
						[]any{[]any{"Item", "Cost"}, []any{"Tea &amp; cake", "4"}},
					}, nil
				},
			},
		}

		text, err := tr.ExtractSpreadsheetText(context.Background(), "prices.xlsx")

		require.NoError(t, err)
		assert.Equal(t, "Item Cost Tea & cake 4", text)
	})

	t.Run("returns ECONFIG without a spreadsheet source", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}

		_, err := tr.ExtractSpreadsheetText(context.Background(), "prices.xlsx")

		assert.Equal(t, searchtext.ECONFIG, searchtext.ErrorCode(err))
	})

	t.Run("returns source errors", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{
			Spreadsheets: &mock.SpreadsheetSource{
				RowsFromAssetFn: func(context.Context, searchtext.AssetRef) ([]any, error) {
					return nil, searchtext.Errorf(searchtext.ENOTFOUND, "asset not found")
				},
			},
		}

		_, err := tr.ExtractSpreadsheetText(context.Background(), "missing.xlsx")

		assert.Equal(t, searchtext.ENOTFOUND, searchtext.ErrorCode(err))
	})
}

func TestTransformer_EntryRecords(t *testing.T) {
	t.Parallel()

	t.Run("builds one record per chunk", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "42", Fields: searchtext.FieldSet{
			{Handle: "body", Value: "aaaa bbbb cccc"},
		}}

		records, err := tr.EntryRecords(context.Background(), entry, searchtext.All(), 9)

		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "42-0", records[0].ObjectID)
		assert.Equal(t, "42-2", records[2].ObjectID)
		assert.Equal(t, searchtext.EntryRef("42"), records[1].EntryID)
		assert.Equal(t, 1, records[1].Position)
		assert.Equal(t, "… bbbb", records[1].Content)
		assert.Len(t, records[0].Hash, 16)
		assert.NotEqual(t, records[0].Hash, records[1].Hash)
	})

	t.Run("hash is stable for equal content", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "1", Fields: searchtext.FieldSet{{Handle: "body", Value: "same"}}}

		first, err := tr.EntryRecords(context.Background(), entry, searchtext.All(), 100)
		require.NoError(t, err)
		second, err := tr.EntryRecords(context.Background(), entry, searchtext.All(), 100)
		require.NoError(t, err)

		assert.Equal(t, first[0].Hash, second[0].Hash)
	})

	t.Run("returns EINVALID for non-positive size", func(t *testing.T) {
		t.Parallel()

		tr := &transform.Transformer{}
		entry := &searchtext.Entry{ID: "1"}

		_, err := tr.EntryRecords(context.Background(), entry, searchtext.All(), -5)

		assert.Equal(t, searchtext.EINVALID, searchtext.ErrorCode(err))
	})
}
