package songs

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Strip punctuation but keep letters (any script), digits, underscore
	// and whitespace. Go's \w is ASCII-only, so the Unicode classes are
	// spelled out to keep accented transliterations and Tamil text intact.
	punctRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
)

// SongID derives the stable song identifier from normalized identity fields.
// The same title/singer/movie/year always maps to the same ID across runs,
// which is what makes re-ingestion idempotent at the entity level.
func SongID(title, singer, movie, year string) string {
	base := fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(singer)),
		strings.ToLower(strings.TrimSpace(movie)),
		strings.TrimSpace(year),
	)
	sum := sha1.Sum([]byte(base))
	return hex.EncodeToString(sum[:])[:16]
}

// CleanLyrics normalizes lyrics for hashing and embedding: trims, removes
// punctuation while keeping Tamil characters, and collapses whitespace.
func CleanLyrics(raw string) string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return ""
	}
	t = punctRe.ReplaceAllString(t, " ")
	t = whitespaceRe.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// LyricsHash is the content hash over cleaned lyrics. It changing is the
// signal that forces chunk regeneration for a song.
func LyricsHash(cleanedLyrics string) string {
	sum := sha1.Sum([]byte(cleanedLyrics))
	return hex.EncodeToString(sum[:])
}

// MetadataHash hashes the ordered metadata fields only, never lyrics.
// It is tracked separately from the content hash so a metadata-only change
// is detectable without re-embedding.
func MetadataHash(m Metadata) string {
	fields := []string{
		m.Title,
		m.Singer,
		m.Movie,
		m.Year,
		m.Mood,
		strings.Join(m.Themes, ","),
		m.Decade,
	}
	for i, f := range fields {
		fields[i] = strings.ToLower(strings.TrimSpace(f))
	}
	sum := sha1.Sum([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(sum[:])
}
