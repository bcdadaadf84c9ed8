package retrieval

import (
	"context"
	"fmt"
	"strings"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/songs"
	"raaga-ai/internal/vectorstore"
)

// PlaylistFromQuery builds a playlist from free text.
func (e *songEngine) PlaylistFromQuery(ctx context.Context, req SearchRequest) (Playlist, error) {
	results, err := e.SearchSongs(ctx, req)
	if err != nil {
		return Playlist{}, err
	}
	return Playlist{Query: strings.TrimSpace(req.Query), Mood: req.Mood, Songs: results}, nil
}

// PlaylistFromSeed builds a playlist of songs similar to the seed song.
//
// The seed's first chunk stands in for the whole song: one scroll fetches its
// vector and payload together, the vector drives the similarity search, and
// the payload's mood (when present) constrains every candidate to the seed's
// mood.
func (e *songEngine) PlaylistFromSeed(ctx context.Context, seedSongID string, k int) (Playlist, error) {
	logger := contextutil.LoggerFromContext(ctx)
	k = clampK(k)

	seedPoints, err := e.vectorStore.Scroll(ctx, e.collection, vectorstore.BySongID(seedSongID), 1, true)
	if err != nil {
		return Playlist{}, fmt.Errorf("%w: seed lookup: %v", ErrStoreUnavailable, err)
	}
	if len(seedPoints) == 0 {
		return Playlist{}, ErrSeedNotFound
	}

	seed := seedPoints[0]
	seedPayload := songs.PayloadFromMap(seed.Payload)

	var filter vectorstore.Filter
	if seedPayload.Mood != "" {
		filter = vectorstore.ByMood(seedPayload.Mood)
	}

	logger.InfoContext(ctx, "seed playlist started",
		"seed_song_id", seedSongID,
		"seed_title", seedPayload.Title,
		"mood", seedPayload.Mood,
		"k", k,
	)

	// Oversample by one extra song's worth of chunks since the seed's own
	// chunks come back as the top hits and are all excluded.
	hits, err := e.vectorStore.Search(ctx, e.collection, seed.Vec, oversampleLimit(k+1), filter)
	if err != nil {
		return Playlist{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	results := collapseToSongs(hits, k, seedSongID)
	logger.InfoContext(ctx, "seed playlist completed", "chunk_hits", len(hits), "songs", len(results))

	return Playlist{SeedSongID: seedSongID, Mood: seedPayload.Mood, Songs: results}, nil
}
