package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/fwojciec/searchtext"
)

// Field values are stored as JSON. Scalars and arrays map to themselves;
// host shapes are single-key objects:
//
//	{"html": "<p>…</p>"}                     rich text
//	{"entry": "12"}                          related entry
//	{"entries": ["12", "13"]}                related entries
//	{"blocks": [{"id", "type", "site"}]}     matrix blocks
//	{"asset": {…}} / {"assets": [{…}]}       assets
//	{"data": {…}}                            any other object
//
// Blocks may carry inline "fields" in imported dumps; stored entries keep
// only block references and the block fields live in the blocks table.

type fieldJSON struct {
	Handle string          `json:"handle"`
	Value  json.RawMessage `json:"value"`
}

type blockJSON struct {
	ID     string          `json:"id"`
	Type   string          `json:"type"`
	Site   string          `json:"site,omitempty"`
	Fields json.RawMessage `json:"fields,omitempty"`
}

type entryJSON struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Fields json.RawMessage `json:"fields"`
}

type dumpJSON struct {
	Entries []entryJSON `json:"entries"`
}

// DecodeEntries reads a JSON content dump of the form {"entries": [...]}.
func DecodeEntries(r io.Reader) ([]*searchtext.Entry, error) {
	var dump dumpJSON
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, searchtext.Errorf(searchtext.EINVALID, "invalid content dump: %v", err)
	}

	entries := make([]*searchtext.Entry, 0, len(dump.Entries))
	for _, e := range dump.Entries {
		fields, err := decodeFields(e.Fields)
		if err != nil {
			return nil, searchtext.Errorf(searchtext.EINVALID, "entry %q: %v", e.ID, err)
		}
		entries = append(entries, &searchtext.Entry{
			ID:     searchtext.EntryRef(e.ID),
			Title:  e.Title,
			Fields: fields,
		})
	}
	return entries, nil
}

func encodeFields(fields searchtext.FieldSet) ([]byte, error) {
	out := make([]map[string]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, map[string]any{"handle": f.Handle, "value": encodeValue(f.Value)})
	}
	return json.Marshal(out)
}

func decodeFields(data []byte) (searchtext.FieldSet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return searchtext.FieldSet{}, nil
	}

	var raw []fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}

	fields := make(searchtext.FieldSet, 0, len(raw))
	for _, f := range raw {
		v, err := decodeValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Handle, err)
		}
		fields = append(fields, searchtext.Field{Handle: f.Handle, Value: v})
	}
	return fields, nil
}

func encodeValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case searchtext.EntryRef:
		return map[string]any{"entry": v}
	case []searchtext.EntryRef:
		return map[string]any{"entries": v}
	case searchtext.Relation:
		return map[string]any{"entries": v.RelatedEntries()}
	case searchtext.RichText:
		return map[string]any{"html": v.RawHTML()}
	case searchtext.Asset:
		return map[string]any{"asset": v}
	case []searchtext.Asset:
		return map[string]any{"assets": v}
	case string, bool, json.Number, int, int32, int64, uint, uint32, uint64, float32, float64:
		return v
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = encodeValue(item)
		}
		return items
	case []string:
		return v
	case [][]any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = encodeValue(item)
		}
		return items
	}

	if blocks, ok := searchtext.AsBlocks(v); ok {
		refs := make([]blockJSON, len(blocks))
		for i, b := range blocks {
			refs[i] = blockJSON{ID: b.ID, Type: b.TypeHandle, Site: b.SiteID}
		}
		return map[string]any{"blocks": refs}
	}

	return map[string]any{"data": v}
}

func decodeValue(data json.RawMessage) (any, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		items := make([]any, len(raw))
		for i, item := range raw {
			v, err := decodeValue(item)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case '{':
		return decodeObject(data)
	default:
		return decodeScalar(data)
	}
}

func decodeObject(data json.RawMessage) (any, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if len(obj) != 1 {
		return decodeScalar(data)
	}

	for key, inner := range obj {
		switch key {
		case "html":
			var s string
			if err := json.Unmarshal(inner, &s); err != nil {
				return nil, fmt.Errorf("html: %w", err)
			}
			return searchtext.HTML(s), nil
		case "entry":
			var id string
			if err := json.Unmarshal(inner, &id); err != nil {
				return nil, fmt.Errorf("entry: %w", err)
			}
			return searchtext.EntryRef(id), nil
		case "entries":
			var ids []searchtext.EntryRef
			if err := json.Unmarshal(inner, &ids); err != nil {
				return nil, fmt.Errorf("entries: %w", err)
			}
			if ids == nil {
				ids = []searchtext.EntryRef{}
			}
			return ids, nil
		case "asset":
			var a searchtext.Asset
			if err := json.Unmarshal(inner, &a); err != nil {
				return nil, fmt.Errorf("asset: %w", err)
			}
			return a, nil
		case "assets":
			var a []searchtext.Asset
			if err := json.Unmarshal(inner, &a); err != nil {
				return nil, fmt.Errorf("assets: %w", err)
			}
			return a, nil
		case "blocks":
			return decodeBlocks(inner)
		case "data":
			return decodeScalar(inner)
		}
	}
	return decodeScalar(data)
}

func decodeBlocks(data json.RawMessage) ([]searchtext.Block, error) {
	var raw []blockJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("blocks: %w", err)
	}

	blocks := make([]searchtext.Block, 0, len(raw))
	for _, b := range raw {
		block := searchtext.Block{ID: b.ID, TypeHandle: b.Type, SiteID: b.Site}
		if len(b.Fields) > 0 {
			fields, err := decodeFields(b.Fields)
			if err != nil {
				return nil, fmt.Errorf("block %q: %w", b.ID, err)
			}
			block.Fields = fields
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// decodeScalar decodes data keeping numbers as json.Number.
func decodeScalar(data json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
