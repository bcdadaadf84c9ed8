package songs

// Metadata describes a song independent of its lyrics text.
type Metadata struct {
	Title  string
	Singer string
	Movie  string
	Year   string
	Mood   string
	Themes []string
	Decade string
	// YouTubeVideoID is optional enrichment carried through from the dataset.
	YouTubeVideoID string
}

// Song is one normalized catalog record, ready for ingestion decisions.
type Song struct {
	ID           string // stable identity hash, see SongID
	Lyrics       string // cleaned lyrics text
	LyricsHash   string
	MetadataHash string
	Meta         Metadata
}

// ChunkPayload is the typed payload stored on every vector point.
// One payload exists per chunk; the song-level fields repeat across chunks
// so that any single retrieved chunk can describe its song.
type ChunkPayload struct {
	SongID     string
	ChunkIndex int
	Title      string
	Singer     string
	Movie      string
	Year       string
	Mood       string
	Themes     []string
	Decade     string
	ChunkText  string
}

// NewChunkPayload builds the payload for one chunk of a song.
func NewChunkPayload(s Song, chunkIndex int, chunkText string) ChunkPayload {
	return ChunkPayload{
		SongID:     s.ID,
		ChunkIndex: chunkIndex,
		Title:      s.Meta.Title,
		Singer:     s.Meta.Singer,
		Movie:      s.Meta.Movie,
		Year:       s.Meta.Year,
		Mood:       s.Meta.Mood,
		Themes:     s.Meta.Themes,
		Decade:     s.Meta.Decade,
		ChunkText:  chunkText,
	}
}

// AsMap flattens the payload into the generic map shape the vector store takes.
func (p ChunkPayload) AsMap() map[string]any {
	themes := make([]any, len(p.Themes))
	for i, t := range p.Themes {
		themes[i] = t
	}
	return map[string]any{
		"song_id":     p.SongID,
		"chunk_index": p.ChunkIndex,
		"title":       p.Title,
		"singer":      p.Singer,
		"movie":       p.Movie,
		"year":        p.Year,
		"mood":        p.Mood,
		"themes":      themes,
		"decade":      p.Decade,
		"chunk_text":  p.ChunkText,
	}
}

// PayloadFromMap reconstructs a typed payload from a stored point payload.
// Missing or mistyped fields become zero values; payloads written by older
// ingestion runs may lack newer fields.
func PayloadFromMap(m map[string]any) ChunkPayload {
	p := ChunkPayload{
		SongID:    stringField(m, "song_id"),
		Title:     stringField(m, "title"),
		Singer:    stringField(m, "singer"),
		Movie:     stringField(m, "movie"),
		Year:      stringField(m, "year"),
		Mood:      stringField(m, "mood"),
		Decade:    stringField(m, "decade"),
		ChunkText: stringField(m, "chunk_text"),
	}
	switch v := m["chunk_index"].(type) {
	case int64:
		p.ChunkIndex = int(v)
	case float64:
		p.ChunkIndex = int(v)
	case int:
		p.ChunkIndex = v
	}
	if raw, ok := m["themes"].([]any); ok {
		for _, t := range raw {
			if s, ok := t.(string); ok {
				p.Themes = append(p.Themes, s)
			}
		}
	}
	return p
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
