package searchtext

// Block is a member of a repeatable-block (matrix) field. TypeHandle
// identifies the block's schema. Fields may be empty when the host only
// exposes block ids; the ContentStore resolves them on demand.
type Block struct {
	ID         string   `json:"id"`
	TypeHandle string   `json:"type"`
	SiteID     string   `json:"site,omitempty"`
	Fields     FieldSet `json:"fields,omitempty"`
}

// Matrix is implemented by host values that expose a list of blocks.
type Matrix interface {
	Blocks() []Block
}

// AsBlocks reports whether v is a matrix field value and returns its blocks.
func AsBlocks(v any) ([]Block, bool) {
	switch v := v.(type) {
	case []Block:
		return v, true
	case []*Block:
		blocks := make([]Block, 0, len(v))
		for _, b := range v {
			if b != nil {
				blocks = append(blocks, *b)
			}
		}
		return blocks, true
	case Matrix:
		return v.Blocks(), true
	}
	return nil, false
}
