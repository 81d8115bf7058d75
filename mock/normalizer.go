package mock

import "github.com/fwojciec/searchtext"

var _ searchtext.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of searchtext.Normalizer.
type Normalizer struct {
	NormalizeFn func(raw string) string
}

func (n *Normalizer) Normalize(raw string) string {
	return n.NormalizeFn(raw)
}
