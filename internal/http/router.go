package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"raaga-ai/internal/enrich"
	"raaga-ai/internal/handlers"
	"raaga-ai/internal/indexer"
	"raaga-ai/internal/retrieval"
	"raaga-ai/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      retrieval.Engine
	Enricher    *enrich.Enricher // nil disables enrichment endpoints' work
	Pipeline    *indexer.Pipeline
	Source      indexer.Source // nil when no dataset is configured
	VectorStore vectorstore.VectorStore
	Collection  string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Collection)
	searchHandler := handlers.NewSearchHandler(deps.Engine)
	playlistHandler := handlers.NewPlaylistHandler(deps.Engine, deps.Enricher)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline, deps.Source)
	enrichHandler := handlers.NewEnrichHandler(deps.Enricher)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodGet, "/search", searchHandler)
		r.Route("/playlist", func(r chi.Router) {
			r.Get("/seed/{songID}", playlistHandler.FromSeed)
			r.Get("/query", playlistHandler.FromQuery)
		})
		// Aliases kept for player clients that predate the /playlist paths.
		r.Route("/player", func(r chi.Router) {
			r.Get("/seed/{songID}", playlistHandler.FromSeed)
			r.Get("/query", playlistHandler.FromQuery)
		})
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Route("/enrich", func(r chi.Router) {
			r.Post("/youtube", enrichHandler.YouTube)
			r.Post("/labels", enrichHandler.Labels)
		})
	})

	return r
}
