package indexer

import (
	"fmt"
	"strings"
)

const (
	// DefaultChunkSize and DefaultChunkOverlap are the character-window
	// parameters used when none are configured. Sized for lyrics: most songs
	// fit in one or two windows.
	DefaultChunkSize    = 1200
	DefaultChunkOverlap = 200
)

// ChunkLyrics splits cleaned lyrics into overlapping character windows.
// Each window holds at most chunkSize runes and each subsequent window starts
// chunkSize-overlap runes after the previous one. Windows are trimmed and
// empty windows dropped, so chunk indexes stay dense even when the text has
// stretches of whitespace.
//
// chunkSize must be strictly greater than overlap; anything else would make
// the walk stall or run backwards and is rejected before any work begins.
// Empty input yields an empty slice, not an error.
func ChunkLyrics(text string, chunkSize, overlap int) ([]string, error) {
	if chunkSize <= overlap {
		return nil, fmt.Errorf("invalid chunking config: chunk_size (%d) must be greater than overlap (%d)", chunkSize, overlap)
	}
	if text == "" {
		return []string{}, nil
	}

	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		end := start + chunkSize
		if end > n {
			end = n
		}
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == n {
			break
		}
		start = end - overlap
	}

	return chunks, nil
}
