package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks raaga-ai/internal/vectorstore VectorStore

import "context"

// Point represents a vector point with its payload.
type Point struct {
	ID      string
	Vec     []float32
	Payload map[string]any
}

// SearchResult represents one chunk-level similarity hit.
type SearchResult struct {
	PointID string
	Score   float32
	Payload map[string]any
}

// ScrolledPoint is a point read back without a similarity score.
type ScrolledPoint struct {
	PointID string
	Vec     []float32
	Payload map[string]any
}

// Match is a keyword-equality condition on a payload field.
type Match struct {
	Field string
	Value string
}

// Filter is a conjunction of keyword matches. The zero value matches all
// points. Keeping this structured (rather than a free-form map) means a typo
// in a field name fails at the call site, not silently at query time.
type Filter struct {
	Must []Match
}

// IsZero reports whether the filter has no conditions.
func (f Filter) IsZero() bool {
	return len(f.Must) == 0
}

// And returns a copy of the filter with an extra equality condition.
func (f Filter) And(field, value string) Filter {
	must := make([]Match, len(f.Must), len(f.Must)+1)
	copy(must, f.Must)
	return Filter{Must: append(must, Match{Field: field, Value: value})}
}

// BySongID filters points belonging to a single song.
func BySongID(songID string) Filter {
	return Filter{}.And("song_id", songID)
}

// ByMood filters points by the mood payload field.
func ByMood(mood string) Filter {
	return Filter{}.And("mood", mood)
}

// VectorStore defines the vector index operations the engine consumes.
// All calls are idempotent with respect to point ID: re-upserting an ID
// overwrites in place.
type VectorStore interface {
	// Upsert inserts or overwrites points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns up to limit chunk-level hits for the query vector,
	// optionally constrained by a filter.
	Search(ctx context.Context, collection string, query []float32, limit int, filter Filter) ([]SearchResult, error)

	// DeleteByFilter removes every point matching the filter.
	DeleteByFilter(ctx context.Context, collection string, filter Filter) error

	// Scroll reads points matching the filter without scoring them.
	// Vectors are fetched only when withVectors is set.
	Scroll(ctx context.Context, collection string, filter Filter, limit int, withVectors bool) ([]ScrolledPoint, error)

	// SetPayload patches payload fields on every point matching the filter,
	// leaving vectors and other payload fields untouched.
	SetPayload(ctx context.Context, collection string, filter Filter, payload map[string]any) error

	// CollectionExists checks if a collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
