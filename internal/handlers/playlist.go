package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/enrich"
	"raaga-ai/internal/retrieval"
)

// PlaylistHandler handles HTTP requests for seed and query playlists.
type PlaylistHandler struct {
	engine   retrieval.Engine
	enricher *enrich.Enricher // nil disables enrichment
}

// NewPlaylistHandler creates a new PlaylistHandler.
func NewPlaylistHandler(engine retrieval.Engine, enricher *enrich.Enricher) *PlaylistHandler {
	return &PlaylistHandler{engine: engine, enricher: enricher}
}

// PlaylistResponse represents a playlist response payload.
type PlaylistResponse struct {
	OK         bool                `json:"ok"`
	SeedSongID string              `json:"seed_song_id,omitempty"`
	Query      string              `json:"query,omitempty"`
	Mood       string              `json:"mood,omitempty"`
	Count      int                 `json:"count"`
	Items      []retrieval.SongHit `json:"items"`

	// Enrichment patch counts, zero when enrichment is disabled.
	YouTubeURLsSaved int `json:"youtube_urls_saved"`
	MusicMetaSaved   int `json:"music_meta_saved"`
}

// FromSeed handles GET /api/playlist/seed/{songID}?k=...
func (h *PlaylistHandler) FromSeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	songID := chi.URLParam(r, "songID")
	if songID == "" {
		writeError(w, http.StatusBadRequest, "Song ID is required")
		return
	}
	k := parseK(r, 20)

	playlist, err := h.engine.PlaylistFromSeed(ctx, songID, k)
	if err != nil {
		if errors.Is(err, retrieval.ErrSeedNotFound) {
			logger.WarnContext(ctx, "seed song not found", "song_id", songID)
			writeError(w, http.StatusNotFound, "Seed song not found")
			return
		}
		engineError(w, r, err, "Failed to build playlist")
		return
	}

	h.respond(w, r, playlist)
}

// FromQuery handles GET /api/playlist/query?q=...&mood=...&k=...
func (h *PlaylistHandler) FromQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		logger.WarnContext(ctx, "empty playlist query")
		writeError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	mood := strings.TrimSpace(r.URL.Query().Get("mood"))
	k := parseK(r, 20)

	playlist, err := h.engine.PlaylistFromQuery(ctx, retrieval.SearchRequest{Query: query, Mood: mood, K: k})
	if err != nil {
		engineError(w, r, err, "Failed to build playlist")
		return
	}

	h.respond(w, r, playlist)
}

// respond runs the best-effort enrichment pass and writes the playlist.
func (h *PlaylistHandler) respond(w http.ResponseWriter, r *http.Request, playlist retrieval.Playlist) {
	items := playlist.Songs
	var stats enrich.Stats
	if h.enricher != nil {
		items, stats = h.enricher.EnrichPlaylist(r.Context(), items)
	}
	if items == nil {
		items = []retrieval.SongHit{}
	}

	writeJSON(w, http.StatusOK, PlaylistResponse{
		OK:               true,
		SeedSongID:       playlist.SeedSongID,
		Query:            playlist.Query,
		Mood:             playlist.Mood,
		Count:            len(items),
		Items:            items,
		YouTubeURLsSaved: stats.YouTubeURLsSaved,
		MusicMetaSaved:   stats.MusicMetaSaved,
	})
}
