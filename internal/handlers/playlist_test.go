package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"raaga-ai/internal/retrieval"
	retrieval_mocks "raaga-ai/internal/retrieval/mocks"
)

func playlistRouter(handler *PlaylistHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/playlist/seed/{songID}", handler.FromSeed)
	r.Get("/api/playlist/query", handler.FromQuery)
	return r
}

func TestPlaylistHandler_FromSeed(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := retrieval_mocks.NewMockEngine(ctrl)
	router := playlistRouter(NewPlaylistHandler(engine, nil))

	engine.EXPECT().
		PlaylistFromSeed(gomock.Any(), "abc123", 5).
		Return(retrieval.Playlist{
			SeedSongID: "abc123",
			Mood:       "melancholic",
			Songs:      []retrieval.SongHit{{SongID: "song2", Title: "Other Song", Score: 0.8}},
		}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/playlist/seed/abc123?k=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp PlaylistResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.SeedSongID != "abc123" || resp.Mood != "melancholic" || resp.Count != 1 {
		t.Errorf("response = %+v", resp)
	}
}

func TestPlaylistHandler_FromSeed_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := retrieval_mocks.NewMockEngine(ctrl)
	router := playlistRouter(NewPlaylistHandler(engine, nil))

	engine.EXPECT().
		PlaylistFromSeed(gomock.Any(), "missing", gomock.Any()).
		Return(retrieval.Playlist{}, retrieval.ErrSeedNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/playlist/seed/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPlaylistHandler_FromQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := retrieval_mocks.NewMockEngine(ctrl)
	router := playlistRouter(NewPlaylistHandler(engine, nil))

	engine.EXPECT().
		PlaylistFromQuery(gomock.Any(), retrieval.SearchRequest{Query: "festival dance", Mood: "kuthu", K: 20}).
		Return(retrieval.Playlist{Query: "festival dance", Mood: "kuthu", Songs: nil}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/playlist/query?q=festival+dance&mood=kuthu", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp PlaylistResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Items == nil || resp.Count != 0 {
		t.Errorf("empty playlist should serialize as an empty list, got %+v", resp)
	}
}

func TestPlaylistHandler_FromQuery_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	router := playlistRouter(NewPlaylistHandler(retrieval_mocks.NewMockEngine(ctrl), nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/playlist/query", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
