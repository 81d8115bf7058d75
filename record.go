package searchtext

import (
	"context"
	"fmt"
)

// Record is one chunk of an entry's text, ready for a search index.
type Record struct {
	ObjectID string   `json:"objectID"`
	EntryID  EntryRef `json:"entryId"`
	Position int      `json:"position"`
	Content  string   `json:"content"`
	Hash     string   `json:"hash"`
}

// RecordObjectID returns the index object ID of the chunk at position.
func RecordObjectID(entryID EntryRef, position int) string {
	return fmt.Sprintf("%s-%d", entryID, position)
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.EntryID == "" {
		return Errorf(EINVALID, "record entry ID required")
	}
	if r.ObjectID == "" {
		return Errorf(EINVALID, "record object ID required")
	}
	return nil
}

// RecordWriter hands records to the search index. Records of one entry
// replace any previously written for it.
type RecordWriter interface {
	WriteRecords(ctx context.Context, entryID EntryRef, records []*Record) error
}
