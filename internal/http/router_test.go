package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/mock/gomock"

	retrieval_mocks "raaga-ai/internal/retrieval/mocks"
	vectorstore_mocks "raaga-ai/internal/vectorstore/mocks"
)

func testDeps(ctrl *gomock.Controller) *Deps {
	return &Deps{
		Engine:      retrieval_mocks.NewMockEngine(ctrl),
		VectorStore: vectorstore_mocks.NewMockVectorStore(ctrl),
		Collection:  "tamil_songs",
	}
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)

	if router := NewRouter(testDeps(ctrl)); router == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps := testDeps(ctrl)
	deps.VectorStore.(*vectorstore_mocks.MockVectorStore).EXPECT().
		CollectionExists(gomock.Any(), "tamil_songs").Return(true, nil).AnyTimes()
	router := NewRouter(deps)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{
			name:       "GET /api/health exists",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/search rejects empty query",
			method:     http.MethodGet,
			path:       "/api/search",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/playlist/query rejects empty query",
			method:     http.MethodGet,
			path:       "/api/playlist/query",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/player/query aliases the playlist route",
			method:     http.MethodGet,
			path:       "/api/player/query",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/enrich/youtube rejects empty body",
			method:     http.MethodPost,
			path:       "/api/enrich/youtube",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/ingest method not allowed",
			method:     http.MethodGet,
			path:       "/api/ingest",
			wantStatus: http.StatusMethodNotAllowed,
		},
		{
			name:       "unknown route is 404",
			method:     http.MethodGet,
			path:       "/api/nope",
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v", tt.method, tt.path, w.Code, tt.wantStatus)
			}
		})
	}
}
