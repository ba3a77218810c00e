package port

import "context"

// IndexPoint is one (vector, metadata) pair to upsert into the candidate
// index. Implementations assign each point a fresh globally unique id;
// callers never supply one, so repeated inserts of the same logical item
// cannot collide with or overwrite an unrelated point.
type IndexPoint struct {
	Vector   []float32
	Code     string
	Text     string
	Metadata map[string]string
}

// SearchResult is one candidate returned from a similarity search.
type SearchResult struct {
	Score    float64
	Code     string
	Text     string
	Metadata map[string]string
}

// VectorIndex is the nearest-neighbor store backing candidate retrieval.
// Search on an empty or cold index returns an empty slice, not an error.
// Filters are exact-match conjunctions over metadata fields.
type VectorIndex interface {
	Index(ctx context.Context, points []IndexPoint) error
	Search(ctx context.Context, vector []float32, k int, filters map[string]string) ([]SearchResult, error)
	Count(ctx context.Context) (int, error)
}
