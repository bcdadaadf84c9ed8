// Package catalog reads the scraped song dataset (JSON Lines) and normalizes
// each row into a Song record ready for ingestion decisions. The scraper
// itself lives outside this system; its JSONL output is the contract.
package catalog

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/songs"
)

// maxLineBytes bounds a single JSONL row. Full lyrics plus metadata stay
// well under this.
const maxLineBytes = 4 * 1024 * 1024

// Row is the raw scraped record shape, one JSON object per line.
type Row struct {
	MovieTitle     string   `json:"movie_title"`
	MovieYear      string   `json:"movie_year"`
	SongTitle      string   `json:"song_title"`
	SongURL        string   `json:"song_url"`
	Singer         string   `json:"singer"`
	MusicBy        string   `json:"music_by"`
	EnglishLyrics  string   `json:"english_lyrics"`
	TamilLyrics    string   `json:"tamil_lyrics"`
	LyricsTa       string   `json:"lyrics_ta"`
	LyricsTranslit string   `json:"lyrics_translit"`
	PrimaryMood    string   `json:"primary_mood"`
	ThemeTags      []string `json:"theme_tags"`
	Decade         string   `json:"decade"`
	YouTubeVideoID string   `json:"youtube_video_id"`
	SourceHash     string   `json:"source_hash"`
}

// Loader streams normalized songs from a JSONL dataset file.
type Loader struct {
	path string
}

// NewLoader creates a loader for the given dataset path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Songs reads the whole dataset and returns normalized song records.
// Unparseable lines are skipped with a warning; a data error in one row must
// not cost the rest of the batch.
func (l *Loader) Songs(ctx context.Context) ([]songs.Song, error) {
	logger := contextutil.LoggerFromContext(ctx)

	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", l.path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var out []songs.Song
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var row Row
		if err := json.Unmarshal(line, &row); err != nil {
			logger.WarnContext(ctx, "skipping malformed dataset row", "line", lineNo, "error", err)
			continue
		}

		out = append(out, Normalize(row))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", l.path, err)
	}

	return out, nil
}

// Normalize converts a raw row into a Song: stable ID, cleaned lyrics, both
// hash domains and metadata, with the decade derived from the year when the
// dataset did not supply one.
func Normalize(row Row) songs.Song {
	cleaned := songs.CleanLyrics(pickLyrics(row))

	meta := songs.Metadata{
		Title:          row.SongTitle,
		Singer:         row.Singer,
		Movie:          row.MovieTitle,
		Year:           row.MovieYear,
		Mood:           row.PrimaryMood,
		Themes:         row.ThemeTags,
		Decade:         row.Decade,
		YouTubeVideoID: row.YouTubeVideoID,
	}
	if meta.Decade == "" {
		meta.Decade = decadeFromYear(row.MovieYear)
	}

	return songs.Song{
		ID:           songs.SongID(row.SongTitle, row.Singer, row.MovieTitle, row.MovieYear),
		Lyrics:       cleaned,
		LyricsHash:   songs.LyricsHash(cleaned),
		MetadataHash: songs.MetadataHash(meta),
		Meta:         meta,
	}
}

// pickLyrics prefers Tamil lyrics, then falls back through the known fields.
func pickLyrics(row Row) string {
	for _, candidate := range []string{row.TamilLyrics, row.LyricsTa, row.EnglishLyrics, row.LyricsTranslit} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// decadeFromYear maps "1994" to "1990s". Non-numeric years yield "".
func decadeFromYear(year string) string {
	if len(year) != 4 {
		return ""
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return year[:3] + "0s"
}
