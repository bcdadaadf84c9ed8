package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "songs.jsonl")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestLoader_Songs(t *testing.T) {
	dataset := `{"song_title":"Kadhal Konden","singer":"Yuvan","movie_title":"Kadhal Konden","movie_year":"2003","tamil_lyrics":"காதல் கொண்டேன்","primary_mood":"melancholic","theme_tags":["love"],"decade":"2000s"}
{"song_title":"Munbe Vaa","singer":"Shreya","movie_title":"Sillunu Oru Kaadhal","movie_year":"2006","english_lyrics":"munbe vaa en anbe vaa","primary_mood":"romantic"}
`
	loader := NewLoader(writeDataset(t, dataset))

	got, err := loader.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Songs() returned %d records, want 2", len(got))
	}

	first := got[0]
	if first.Meta.Title != "Kadhal Konden" || first.Meta.Mood != "melancholic" {
		t.Errorf("first record metadata = %+v", first.Meta)
	}
	if first.ID == "" || first.LyricsHash == "" || first.MetadataHash == "" {
		t.Errorf("first record missing derived fields: %+v", first)
	}
	if first.Lyrics != "காதல் கொண்டேன்" {
		t.Errorf("first record lyrics = %q", first.Lyrics)
	}
}

func TestLoader_SkipsMalformedLines(t *testing.T) {
	dataset := `{"song_title":"Good Song","movie_title":"Movie","movie_year":"1995","english_lyrics":"la la la"}
this is not json
{"song_title":"Another Song","movie_title":"Movie","movie_year":"1996","english_lyrics":"na na na"}
`
	loader := NewLoader(writeDataset(t, dataset))

	got, err := loader.Songs(context.Background())
	if err != nil {
		t.Fatalf("Songs() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Songs() returned %d records, want 2 (malformed line skipped)", len(got))
	}
}

func TestLoader_MissingFile(t *testing.T) {
	loader := NewLoader("/nonexistent/songs.jsonl")
	if _, err := loader.Songs(context.Background()); err == nil {
		t.Error("Songs() should fail for missing dataset")
	}
}

func TestNormalize_LyricsPreference(t *testing.T) {
	tests := []struct {
		name string
		row  Row
		want string
	}{
		{
			name: "tamil first",
			row:  Row{TamilLyrics: "tamil", EnglishLyrics: "english"},
			want: "tamil",
		},
		{
			name: "lyrics_ta before english",
			row:  Row{LyricsTa: "ta", EnglishLyrics: "english"},
			want: "ta",
		},
		{
			name: "english fallback",
			row:  Row{EnglishLyrics: "english", LyricsTranslit: "translit"},
			want: "english",
		},
		{
			name: "translit last",
			row:  Row{LyricsTranslit: "translit"},
			want: "translit",
		},
		{
			name: "no lyrics",
			row:  Row{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.row)
			if got.Lyrics != tt.want {
				t.Errorf("Normalize() lyrics = %q, want %q", got.Lyrics, tt.want)
			}
		})
	}
}

func TestNormalize_DecadeDerivation(t *testing.T) {
	tests := []struct {
		name   string
		row    Row
		decade string
	}{
		{
			name:   "explicit decade wins",
			row:    Row{MovieYear: "1994", Decade: "nineties"},
			decade: "nineties",
		},
		{
			name:   "derived from year",
			row:    Row{MovieYear: "1994"},
			decade: "1990s",
		},
		{
			name:   "non-numeric year",
			row:    Row{MovieYear: "unknown"},
			decade: "",
		},
		{
			name:   "empty year",
			row:    Row{},
			decade: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.row)
			if got.Meta.Decade != tt.decade {
				t.Errorf("Normalize() decade = %q, want %q", got.Meta.Decade, tt.decade)
			}
		})
	}
}

func TestNormalize_StableID(t *testing.T) {
	row := Row{SongTitle: "Song", Singer: "Singer", MovieTitle: "Movie", MovieYear: "2001", EnglishLyrics: "words"}
	a := Normalize(row)

	// Lyrics edits must not move the song identity.
	row.EnglishLyrics = "different words"
	b := Normalize(row)

	if a.ID != b.ID {
		t.Errorf("song ID changed with lyrics: %q vs %q", a.ID, b.ID)
	}
	if a.LyricsHash == b.LyricsHash {
		t.Error("lyrics hash should change with lyrics")
	}
}
