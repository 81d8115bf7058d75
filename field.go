package searchtext

import (
	"encoding/json"
	"strconv"
)

// EntryRef identifies another content item. Resolving it is always a read
// against the ContentStore; the core never caches targets.
type EntryRef string

// Relation is implemented by host values that reference a list of entries,
// such as an entries field query.
type Relation interface {
	RelatedEntries() []EntryRef
}

// RichText is implemented by host values that carry markup, such as the
// value of a rich-text editor field.
type RichText interface {
	RawHTML() string
}

// HTML is a rich-text field value.
type HTML string

// RawHTML returns the markup as stored.
func (h HTML) RawHTML() string { return string(h) }

// Field is one raw field value as exposed by the content host.
type Field struct {
	Handle string `json:"handle"`
	Value  any    `json:"value"`
}

// FieldSet is an ordered mapping from field handle to raw value.
// Handles are unique within a set; order is the host's natural field order.
type FieldSet []Field

// Get returns the value stored under handle.
func (fs FieldSet) Get(handle string) (any, bool) {
	for _, f := range fs {
		if f.Handle == handle {
			return f.Value, true
		}
	}
	return nil, false
}

// Entry is a single content item with a set of named, typed fields.
type Entry struct {
	ID     EntryRef `json:"id"`
	Title  string   `json:"title"`
	Fields FieldSet `json:"fields"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return Errorf(EINVALID, "entry ID required")
	}
	return nil
}

// AssetKindImage is the asset kind of image files.
const AssetKindImage = "image"

// Asset is a file attached to an asset field.
type Asset struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// FieldKind is the semantic variant of a classified field value.
type FieldKind int

const (
	KindUnsupported FieldKind = iota
	KindPlainText
	KindRelatedEntry
	KindRelatedEntryList
	KindNestedList
)

// String returns the name of the kind.
func (k FieldKind) String() string {
	switch k {
	case KindPlainText:
		return "plain_text"
	case KindRelatedEntry:
		return "related_entry"
	case KindRelatedEntryList:
		return "related_entry_list"
	case KindNestedList:
		return "nested_list"
	default:
		return "unsupported"
	}
}

// FieldValue is a classified field value. Only the members matching Kind
// are set: Text for plain text, Refs for relations, Items for nested lists.
type FieldValue struct {
	Kind  FieldKind
	Text  string
	Refs  []EntryRef
	Items []FieldValue
}

// Classify assigns a raw host value its semantic variant. Relation shapes
// are checked first, then string-like shapes, then ordered collections.
// Anything else is KindUnsupported; Classify never fails.
func Classify(v any) FieldValue {
	switch v := v.(type) {
	case EntryRef:
		return FieldValue{Kind: KindRelatedEntry, Refs: []EntryRef{v}}
	case []EntryRef:
		return FieldValue{Kind: KindRelatedEntryList, Refs: append([]EntryRef(nil), v...)}
	case Relation:
		return FieldValue{Kind: KindRelatedEntryList, Refs: append([]EntryRef(nil), v.RelatedEntries()...)}
	}

	if s, ok := plainText(v); ok {
		return FieldValue{Kind: KindPlainText, Text: s}
	}

	switch v := v.(type) {
	case []FieldValue:
		return FieldValue{Kind: KindNestedList, Items: append([]FieldValue(nil), v...)}
	case []any:
		return nestedList(len(v), func(i int) any { return v[i] })
	case []string:
		return nestedList(len(v), func(i int) any { return v[i] })
	case [][]any:
		return nestedList(len(v), func(i int) any { return v[i] })
	}

	return FieldValue{Kind: KindUnsupported}
}

func nestedList(n int, at func(i int) any) FieldValue {
	items := make([]FieldValue, n)
	for i := range items {
		items[i] = Classify(at(i))
	}
	return FieldValue{Kind: KindNestedList, Items: items}
}

// plainText reports whether v is string-like and returns its text.
func plainText(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case RichText:
		return v.RawHTML(), true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint:
		return strconv.FormatUint(uint64(v), 10), true
	case uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}
