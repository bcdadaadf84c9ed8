package retrieval

import "errors"

var (
	// ErrSeedNotFound is returned when a seed playlist references a song
	// that has no points in the collection.
	ErrSeedNotFound = errors.New("seed song not found in collection")

	// ErrStoreUnavailable wraps vector store failures so handlers can map
	// them to a status code without inspecting error text.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrEmbedderUnavailable wraps embedding backend failures.
	ErrEmbedderUnavailable = errors.New("embeddings service unavailable")
)
