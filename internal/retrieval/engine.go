package retrieval

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks raaga-ai/internal/retrieval Engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/llm"
	"raaga-ai/internal/songs"
	"raaga-ai/internal/vectorstore"
)

const (
	// defaultK is used when a request does not specify a result count.
	defaultK = 10
	// maxK caps the result count on any single request.
	maxK = 50
	// minOversample is the floor on the chunk-level search limit. Collapsing
	// to songs can shrink the result set by the average chunks-per-song, so
	// the chunk search always over-fetches.
	minOversample = 50
	// oversampleFactor multiplies K to size the chunk-level search.
	oversampleFactor = 8
)

// Engine retrieves songs by semantic similarity and builds playlists.
type Engine interface {
	// SearchSongs returns song-level hits for a free-text query.
	SearchSongs(ctx context.Context, req SearchRequest) ([]SongHit, error)

	// PlaylistFromSeed builds a playlist of songs similar to the seed song,
	// constrained to the seed's mood when it has one. The seed itself is
	// never in the result. Returns ErrSeedNotFound for an unknown song.
	PlaylistFromSeed(ctx context.Context, seedSongID string, k int) (Playlist, error)

	// PlaylistFromQuery builds a playlist from free text with an optional
	// mood constraint.
	PlaylistFromQuery(ctx context.Context, req SearchRequest) (Playlist, error)
}

// songEngine implements the Engine interface.
type songEngine struct {
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	logger      *slog.Logger
}

// NewEngine creates a new retrieval engine.
func NewEngine(embedder llm.Embedder, vectorStore vectorstore.VectorStore, collection string) Engine {
	return &songEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		logger:      slog.Default(),
	}
}

// clampK normalizes the requested result count.
func clampK(k int) int {
	if k <= 0 {
		return defaultK
	}
	if k > maxK {
		return maxK
	}
	return k
}

// oversampleLimit sizes the chunk-level search for a song-level K.
func oversampleLimit(k int) int {
	limit := k * oversampleFactor
	if limit < minOversample {
		limit = minOversample
	}
	return limit
}

// collapseToSongs reduces chunk-level hits to at most k song-level hits.
// Each song keeps the score and excerpt of its best chunk. Ties keep the
// order the chunks came back in, which is the vector store's score order.
// Songs matching excludeSongID are dropped before truncation.
func collapseToSongs(hits []vectorstore.SearchResult, k int, excludeSongID string) []SongHit {
	bySong := make(map[string]int) // song_id -> index into collapsed
	collapsed := make([]SongHit, 0, k)

	for _, hit := range hits {
		payload := songs.PayloadFromMap(hit.Payload)
		if payload.SongID == "" || payload.SongID == excludeSongID {
			continue
		}

		if idx, seen := bySong[payload.SongID]; seen {
			if hit.Score > collapsed[idx].Score {
				collapsed[idx].Score = hit.Score
				collapsed[idx].BestChunk = payload.ChunkText
			}
			continue
		}

		bySong[payload.SongID] = len(collapsed)
		collapsed = append(collapsed, SongHit{
			SongID:     payload.SongID,
			Score:      hit.Score,
			Title:      payload.Title,
			Singer:     payload.Singer,
			Movie:      payload.Movie,
			Year:       payload.Year,
			Mood:       payload.Mood,
			Themes:     payload.Themes,
			Decade:     payload.Decade,
			BestChunk:  payload.ChunkText,
			YouTubeURL: payloadString(hit.Payload, "youtube_url"),
			Genre:      payloadString(hit.Payload, "genre"),
			Rhythm:     payloadString(hit.Payload, "rhythm"),
		})
	}

	sort.SliceStable(collapsed, func(i, j int) bool {
		return collapsed[i].Score > collapsed[j].Score
	})

	if len(collapsed) > k {
		collapsed = collapsed[:k]
	}
	return collapsed
}

// payloadString reads an enrichment field that is patched onto points after
// ingestion and so has no place in the typed chunk payload.
func payloadString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// search embeds the query text and runs an oversampled chunk search.
func (e *songEngine) search(ctx context.Context, query string, filter vectorstore.Filter, k int) ([]vectorstore.SearchResult, error) {
	embeddings, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedderUnavailable, err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for query", ErrEmbedderUnavailable)
	}

	hits, err := e.vectorStore.Search(ctx, e.collection, embeddings[0], oversampleLimit(k), filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return hits, nil
}

// SearchSongs returns song-level hits for a free-text query.
func (e *songEngine) SearchSongs(ctx context.Context, req SearchRequest) ([]SongHit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	k := clampK(req.K)

	var filter vectorstore.Filter
	if req.Mood != "" {
		filter = vectorstore.ByMood(req.Mood)
	}

	logger.InfoContext(ctx, "song search started", "query", query, "mood", req.Mood, "k", k)

	hits, err := e.search(ctx, query, filter, k)
	if err != nil {
		logger.ErrorContext(ctx, "song search failed", "error", err)
		return nil, err
	}

	results := collapseToSongs(hits, k, "")
	logger.InfoContext(ctx, "song search completed", "chunk_hits", len(hits), "songs", len(results))
	return results, nil
}

