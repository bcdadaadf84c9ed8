package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	"raaga-ai/internal/retrieval"
	retrieval_mocks "raaga-ai/internal/retrieval/mocks"
)

func TestSearchHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	engine := retrieval_mocks.NewMockEngine(ctrl)
	handler := NewSearchHandler(engine)

	engine.EXPECT().
		SearchSongs(gomock.Any(), retrieval.SearchRequest{Query: "rain and longing", Mood: "melancholic", K: 5}).
		Return([]retrieval.SongHit{
			{SongID: "song1", Title: "Song One", Score: 0.9},
			{SongID: "song2", Title: "Song Two", Score: 0.8},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=rain+and+longing&mood=melancholic&k=5", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.OK || resp.Count != 2 || len(resp.Items) != 2 {
		t.Errorf("response = %+v, want ok with 2 items", resp)
	}
	if resp.Query != "rain and longing" || resp.Mood != "melancholic" {
		t.Errorf("echoed query/mood = %q/%q", resp.Query, resp.Mood)
	}
}

func TestSearchHandler_EmptyQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewSearchHandler(retrieval_mocks.NewMockEngine(ctrl))

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=++", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchHandler_KClamping(t *testing.T) {
	tests := []struct {
		name      string
		rawK      string
		expectedK int
	}{
		{"missing k uses default", "", 10},
		{"k below range", "0", 1},
		{"k above range", "999", 50},
		{"garbage k uses default", "abc", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := retrieval_mocks.NewMockEngine(ctrl)
			handler := NewSearchHandler(engine)

			engine.EXPECT().
				SearchSongs(gomock.Any(), retrieval.SearchRequest{Query: "x", K: tt.expectedK}).
				Return(nil, nil)

			target := "/api/search?q=x"
			if tt.rawK != "" {
				target += "&k=" + tt.rawK
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestSearchHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"vector store down", fmt.Errorf("%w: connection refused", retrieval.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"embeddings down", fmt.Errorf("%w: connection refused", retrieval.ErrEmbedderUnavailable), http.StatusBadGateway},
		{"wrapped store error", fmt.Errorf("seed lookup: %w", retrieval.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
		// Message text alone never classifies an error.
		{"unrelated error mentioning embed", errors.New("failed to parse embedded config"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			engine := retrieval_mocks.NewMockEngine(ctrl)
			handler := NewSearchHandler(engine)

			engine.EXPECT().SearchSongs(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=x", nil))

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
		})
	}
}

func TestSearchHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	handler := NewSearchHandler(retrieval_mocks.NewMockEngine(ctrl))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/search?q=x", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}
