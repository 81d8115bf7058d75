package searchtext

import "slices"

// EmptyPolicy decides what an IncludeFilter without handles accepts.
// There is no implicit default: the zero value is rejected by Validate.
type EmptyPolicy int

const (
	EmptyPolicyUnset EmptyPolicy = iota
	EmptyIncludesNone
	EmptyIncludesAll
)

// IncludeFilter selects field handles, or block type handles for matrix
// fields, that take part in extraction.
type IncludeFilter struct {
	Handles   []string
	WhenEmpty EmptyPolicy
}

// Only returns a filter accepting exactly the given handles.
// With no handles it accepts nothing.
func Only(handles ...string) IncludeFilter {
	return IncludeFilter{Handles: handles, WhenEmpty: EmptyIncludesNone}
}

// All returns a filter accepting every handle.
func All() IncludeFilter {
	return IncludeFilter{WhenEmpty: EmptyIncludesAll}
}

// Validate returns an error if the filter has no handles and no policy.
func (f IncludeFilter) Validate() error {
	if len(f.Handles) > 0 {
		return nil
	}
	switch f.WhenEmpty {
	case EmptyIncludesNone, EmptyIncludesAll:
		return nil
	default:
		return Errorf(EINVALID, "include filter without handles requires an empty policy")
	}
}

// Accepts reports whether handle passes the filter.
func (f IncludeFilter) Accepts(handle string) bool {
	if len(f.Handles) == 0 {
		return f.WhenEmpty == EmptyIncludesAll
	}
	return slices.Contains(f.Handles, handle)
}
