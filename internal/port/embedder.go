package port

import "context"

// Embedder abstracts the embedding model: text in, fixed-dimension vector
// out. Deterministic for a given model version.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
