package searchtext

import (
	"strings"
	"unicode"
)

// DefaultChunkSize is the chunk size, in code points, used when the caller
// has no index-specific limit.
const DefaultChunkSize = 3500

// ContinuationMarker starts every chunk after the first. The chunk text
// that follows it begins with the whitespace it was cut at, so
// continuations read "… next words". A continuation of a hard cut inside
// an unbroken token has no space after the marker ("…rest").
const ContinuationMarker = "…"

// Split cuts normalized text into chunks of at most maxSize code points,
// not counting the continuation marker. Cuts happen at the last whitespace
// before position maxSize; a run without whitespace is hard-cut at maxSize.
// Removing the markers and concatenating the chunks yields text again.
// Empty text yields no chunks.
func Split(text string, maxSize int) ([]string, error) {
	if maxSize <= 0 {
		return nil, Errorf(EINVALID, "chunk size must be positive, got %d", maxSize)
	}
	if text == "" {
		return nil, nil
	}

	remaining := []rune(text)
	var chunks []string
	prefix := ""
	for len(remaining) > 0 {
		if len(remaining) <= maxSize {
			chunks = append(chunks, prefix+string(remaining))
			break
		}

		cut := lastSpace(remaining[:maxSize])
		if cut <= 0 {
			cut = maxSize
		}

		chunks = append(chunks, prefix+string(remaining[:cut]))
		remaining = remaining[cut:]
		prefix = ContinuationMarker
	}

	return chunks, nil
}

// lastSpace returns the index of the last whitespace rune in window, or -1.
func lastSpace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return -1
}

// Join reverses Split: it drops the continuation markers and concatenates
// the chunks.
func Join(chunks []string) string {
	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			c = strings.TrimPrefix(c, ContinuationMarker)
		}
		b.WriteString(c)
	}
	return b.String()
}
