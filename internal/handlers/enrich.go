package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/enrich"
)

// EnrichHandler handles HTTP requests for on-demand payload enrichment.
type EnrichHandler struct {
	enricher *enrich.Enricher
}

// NewEnrichHandler creates a new EnrichHandler.
func NewEnrichHandler(enricher *enrich.Enricher) *EnrichHandler {
	return &EnrichHandler{enricher: enricher}
}

// EnrichRequest represents the request body for enrichment endpoints.
type EnrichRequest struct {
	SongIDs []string `json:"song_ids"`
}

// EnrichResponse represents the response from enrichment endpoints.
type EnrichResponse struct {
	OK        bool `json:"ok"`
	Requested int  `json:"requested"`
	Updated   int  `json:"updated"`
}

func decodeEnrichRequest(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req EnrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	if len(req.SongIDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "song_ids must be a non-empty list")
		return nil, false
	}
	return req.SongIDs, true
}

// YouTube handles POST /api/enrich/youtube with body {"song_ids": [...]}.
// For each song lacking a stored URL, a search placeholder is resolved and
// patched onto its chunks.
func (h *EnrichHandler) YouTube(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	songIDs, ok := decodeEnrichRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.enricher.EnrichYouTube(ctx, songIDs)
	if err != nil {
		logger.ErrorContext(ctx, "youtube enrichment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to enrich songs")
		return
	}

	writeJSON(w, http.StatusOK, EnrichResponse{OK: true, Requested: len(songIDs), Updated: updated})
}

// Labels handles POST /api/enrich/labels with body {"song_ids": [...]}.
// Each song is classified by the chat model and labeled on its own fields.
func (h *EnrichHandler) Labels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	songIDs, ok := decodeEnrichRequest(w, r)
	if !ok {
		return
	}

	updated, err := h.enricher.EnrichLabels(ctx, songIDs)
	if err != nil {
		if errors.Is(err, enrich.ErrNoClassifier) {
			writeError(w, http.StatusServiceUnavailable, "No classifier configured")
			return
		}
		logger.ErrorContext(ctx, "label enrichment failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to label songs")
		return
	}

	writeJSON(w, http.StatusOK, EnrichResponse{OK: true, Requested: len(songIDs), Updated: updated})
}
