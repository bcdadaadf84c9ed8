package retrieval

// SearchRequest represents a semantic song search.
type SearchRequest struct {
	// Query is the free-text description to search for.
	Query string `json:"query"`
	// Mood optionally restricts results to songs with this mood tag.
	Mood string `json:"mood,omitempty"`
	// K is the desired number of songs. Zero means the default.
	K int `json:"k,omitempty"`
}

// SongHit is one song-level result after collapsing chunk hits.
type SongHit struct {
	// SongID is the stable song identity hash.
	SongID string `json:"song_id"`
	// Score is the best chunk score for this song, never an average.
	Score  float32  `json:"score"`
	Title  string   `json:"title"`
	Singer string   `json:"singer"`
	Movie  string   `json:"movie"`
	Year   string   `json:"year"`
	Mood   string   `json:"mood"`
	Themes []string `json:"themes,omitempty"`
	Decade string   `json:"decade,omitempty"`
	// BestChunk is the lyric excerpt that produced the winning score.
	BestChunk string `json:"best_chunk,omitempty"`

	// These come from enrichment patches on the payload and are empty for
	// songs that were never enriched.
	YouTubeURL string `json:"youtube_url,omitempty"`
	Genre      string `json:"genre,omitempty"`
	Rhythm     string `json:"rhythm,omitempty"`
}

// Playlist is an ordered list of songs built from a seed or a query.
type Playlist struct {
	// SeedSongID is set when the playlist was built from a seed song.
	SeedSongID string `json:"seed_song_id,omitempty"`
	// Query is set when the playlist was built from free text.
	Query string `json:"query,omitempty"`
	// Mood is the mood filter that constrained the playlist, if any.
	Mood  string    `json:"mood,omitempty"`
	Songs []SongHit `json:"songs"`
}
