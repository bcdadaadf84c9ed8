package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"raaga-ai/internal/catalog"
	"raaga-ai/internal/config"
	"raaga-ai/internal/enrich"
	"raaga-ai/internal/http"
	"raaga-ai/internal/indexer"
	"raaga-ai/internal/llm"
	"raaga-ai/internal/retrieval"
	"raaga-ai/internal/storage"
	"raaga-ai/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the ingestion state database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	stateRepo := storage.NewStateRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size and payload indexes
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create the ingestion pipeline
	pipeline, err := indexer.NewPipeline(
		stateRepo,
		embedder,
		vectorStore,
		cfg.QdrantCollection,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
	)
	if err != nil {
		log.Fatalf("Failed to create ingestion pipeline: %v", err)
	}

	// Song catalog, when a dataset is configured
	var source indexer.Source
	if cfg.DatasetPath != "" {
		source = catalog.NewLoader(cfg.DatasetPath)
		slog.Info("Dataset configured", "path", cfg.DatasetPath)
	}

	// Retrieval engine
	engine := retrieval.NewEngine(embedder, vectorStore, cfg.QdrantCollection)
	slog.Info("Retrieval engine initialized")

	// Enrichment collaborators (all best-effort)
	var webResolver *enrich.WebResolver
	if cfg.EnableWebResolver {
		webResolver = enrich.NewWebResolver()
		slog.Info("Web metadata resolver enabled")
	}
	classifier := enrich.NewClassifier(llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName))
	enricher := enrich.NewEnricher(vectorStore, cfg.QdrantCollection, webResolver, classifier)

	// Create router with dependencies
	deps := &http.Deps{
		Engine:      engine,
		Enricher:    enricher,
		Pipeline:    pipeline,
		Source:      source,
		VectorStore: vectorStore,
		Collection:  cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	// Start ingestion in background after router is ready
	if source != nil {
		go func() {
			ingestCtx := context.Background()
			slog.Info("Starting background ingestion", "dataset", cfg.DatasetPath)
			stats, err := pipeline.IngestAll(ingestCtx, source)
			if err != nil {
				slog.Error("Ingestion completed with errors", "error", err)
			} else {
				slog.Info("Ingestion completed", "stats", stats.String())
			}
		}()
	}

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
