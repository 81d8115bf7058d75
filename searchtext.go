// Package searchtext extracts plain, search-indexable text from CMS
// content: entries with typed fields, repeatable blocks, related entries,
// and spreadsheet assets. Extracted text can be split into bounded chunks
// for a downstream search index.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, html/).
package searchtext
