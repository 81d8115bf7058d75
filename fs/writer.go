// Package fs writes search records to a directory as JSON Lines files.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/fwojciec/searchtext"
)

// EntryToPath converts an entry ID to a relative file path.
// Example: articles/42 → articles/42.jsonl
func EntryToPath(entryID searchtext.EntryRef) (string, error) {
	path := filepath.FromSlash(string(entryID))
	if path == "" || !filepath.IsLocal(path) {
		return "", searchtext.Errorf(searchtext.EINVALID, "entry ID %q is not a valid file name", entryID)
	}
	return path + ".jsonl", nil
}

// FormatRecords encodes records as JSON Lines, one record per line.
func FormatRecords(records []*searchtext.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Ensure RecordWriter implements searchtext.RecordWriter at compile time.
var _ searchtext.RecordWriter = (*RecordWriter)(nil)

// RecordWriter writes each entry's records to its own file under a base
// directory. Writing replaces the entry's previous file; writing no records
// removes it.
type RecordWriter struct {
	baseDir string
}

// NewRecordWriter creates a new RecordWriter that writes to the given base directory.
func NewRecordWriter(baseDir string) *RecordWriter {
	return &RecordWriter{baseDir: baseDir}
}

// WriteRecords replaces the record file of entryID.
func (w *RecordWriter) WriteRecords(ctx context.Context, entryID searchtext.EntryRef, records []*searchtext.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	relPath, err := EntryToPath(entryID)
	if err != nil {
		return err
	}
	fullPath := filepath.Join(w.baseDir, relPath)

	if len(records) == 0 {
		if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return nil
	}

	content, err := FormatRecords(records)
	if err != nil {
		return err
	}

	// Create parent directories
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Replace atomically via a temp file in the same directory.
	tmp, err := os.CreateTemp(dir, ".records-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fullPath)
}
