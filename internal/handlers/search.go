package handlers

import (
	"errors"
	"net/http"
	"strings"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/retrieval"
)

// SearchHandler handles HTTP requests for semantic song search.
type SearchHandler struct {
	engine retrieval.Engine
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(engine retrieval.Engine) *SearchHandler {
	return &SearchHandler{engine: engine}
}

// SearchResponse represents the search response payload.
type SearchResponse struct {
	OK    bool                `json:"ok"`
	Query string              `json:"query"`
	Mood  string              `json:"mood,omitempty"`
	Count int                 `json:"count"`
	Items []retrieval.SongHit `json:"items"`
}

// ServeHTTP handles GET /api/search?q=...&mood=...&k=...
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		logger.WarnContext(ctx, "empty search query")
		writeError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}
	mood := strings.TrimSpace(r.URL.Query().Get("mood"))
	k := parseK(r, 10)

	items, err := h.engine.SearchSongs(ctx, retrieval.SearchRequest{Query: query, Mood: mood, K: k})
	if err != nil {
		engineError(w, r, err, "Failed to search songs")
		return
	}
	if items == nil {
		items = []retrieval.SongHit{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		OK:    true,
		Query: query,
		Mood:  mood,
		Count: len(items),
		Items: items,
	})
}

// engineError maps retrieval engine errors to HTTP status codes: the vector
// store down is 503, the embeddings service down is 502, anything else 500.
func engineError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "retrieval engine error", "error", err)

	switch {
	case errors.Is(err, retrieval.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
	case errors.Is(err, retrieval.ErrEmbedderUnavailable):
		writeError(w, http.StatusBadGateway, "Embeddings service error")
	default:
		writeError(w, http.StatusInternalServerError, defaultMsg)
	}
}
