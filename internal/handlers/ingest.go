package handlers

import (
	"context"
	"net/http"

	"raaga-ai/internal/contextutil"
	"raaga-ai/internal/indexer"
)

// IngestHandler handles HTTP requests for triggering an ingestion run.
type IngestHandler struct {
	pipeline *indexer.Pipeline
	source   indexer.Source
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline *indexer.Pipeline, source indexer.Source) *IngestHandler {
	return &IngestHandler{pipeline: pipeline, source: source}
}

// IngestResponse represents the response from the ingest endpoint.
type IngestResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ServeHTTP handles POST /api/ingest. Ingestion runs in the background; the
// response returns immediately with 202.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if h.source == nil {
		logger.WarnContext(ctx, "ingestion requested but no dataset is configured")
		writeError(w, http.StatusConflict, "No dataset configured")
		return
	}

	if h.pipeline.Running() {
		logger.WarnContext(ctx, "ingestion requested while a run is active")
		writeError(w, http.StatusConflict, "Ingestion already in progress")
		return
	}

	logger.InfoContext(ctx, "ingestion triggered via API")

	// Background context so the run survives the HTTP request. The pipeline
	// holds the single-run guard, so a trigger that slips past the check
	// above still cannot start an overlapping run.
	go func() {
		ingestCtx := contextutil.WithLogger(context.Background(), logger)
		stats, err := h.pipeline.IngestAll(ingestCtx, h.source)
		if err != nil {
			logger.ErrorContext(ingestCtx, "ingestion run failed", "error", err)
			return
		}
		logger.InfoContext(ingestCtx, "ingestion run finished", "stats", stats.String())
	}()

	writeJSON(w, http.StatusAccepted, IngestResponse{
		Message: "Ingestion started. Check server logs for progress.",
		Status:  "accepted",
	})
}
