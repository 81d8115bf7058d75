package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/searchtext"
)

// Compile-time interface verification.
var (
	_ searchtext.ContentStore = (*ContentStore)(nil)
	_ searchtext.EntryService = (*ContentStore)(nil)
)

// ContentStore implements searchtext.ContentStore and
// searchtext.EntryService using SQLite.
type ContentStore struct {
	db *DB
}

// NewContentStore creates a new ContentStore.
func NewContentStore(db *DB) *ContentStore {
	return &ContentStore{db: db}
}

// SaveEntry creates or replaces an entry. Blocks of matrix fields that
// carry inline fields are stored in the blocks table; the entry keeps
// only their references.
func (s *ContentStore) SaveEntry(ctx context.Context, entry *searchtext.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	fields, err := encodeFields(entry.Fields)
	if err != nil {
		return fmt.Errorf("encoding entry %q: %w", entry.ID, err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM blocks WHERE entry_id = ?", entry.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO entries (id, title, fields, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title = excluded.title, fields = excluded.fields, updated_at = excluded.updated_at
	`, entry.ID, entry.Title, string(fields), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	for _, f := range entry.Fields {
		blocks, ok := searchtext.AsBlocks(f.Value)
		if !ok {
			continue
		}
		for i, b := range blocks {
			if b.Fields == nil {
				continue
			}
			blockFields, err := encodeFields(b.Fields)
			if err != nil {
				return fmt.Errorf("encoding block %q: %w", b.ID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT OR REPLACE INTO blocks (id, site_id, entry_id, type_handle, position, fields)
				VALUES (?, ?, ?, ?, ?, ?)
			`, b.ID, b.SiteID, entry.ID, b.TypeHandle, i, string(blockFields))
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// FindEntry retrieves an entry by ID.
func (s *ContentStore) FindEntry(ctx context.Context, id searchtext.EntryRef) (*searchtext.Entry, error) {
	var title, fields string
	err := s.db.QueryRowContext(ctx, `
		SELECT title, fields FROM entries WHERE id = ?
	`, id).Scan(&title, &fields)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, searchtext.Errorf(searchtext.ENOTFOUND, "entry %q not found", id)
	}
	if err != nil {
		return nil, err
	}

	fs, err := decodeFields([]byte(fields))
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", id, err)
	}

	return &searchtext.Entry{ID: id, Title: title, Fields: fs}, nil
}

// FindBlockFields retrieves the field set of a block.
func (s *ContentStore) FindBlockFields(ctx context.Context, blockID, siteID string) (searchtext.FieldSet, error) {
	var fields string
	err := s.db.QueryRowContext(ctx, `
		SELECT fields FROM blocks WHERE id = ? AND site_id = ?
	`, blockID, siteID).Scan(&fields)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, searchtext.Errorf(searchtext.ENOTFOUND, "block %q not found", blockID)
	}
	if err != nil {
		return nil, err
	}

	fs, err := decodeFields([]byte(fields))
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", blockID, err)
	}
	return fs, nil
}

// FindEntryIDs returns the IDs of all stored entries in ID order.
func (s *ContentStore) FindEntryIDs(ctx context.Context) ([]searchtext.EntryRef, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM entries ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []searchtext.EntryRef
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, searchtext.EntryRef(id))
	}
	return ids, rows.Err()
}

// DeleteEntry removes an entry and its blocks.
func (s *ContentStore) DeleteEntry(ctx context.Context, id searchtext.EntryRef) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return searchtext.Errorf(searchtext.ENOTFOUND, "entry %q not found", id)
	}
	return nil
}
