package port

import (
	"context"

	"github.com/wahajaslm/tarco/internal/domain"
)

// Reranker scores (query, candidate text) pairs with a cross-encoder model
// and returns candidates sorted descending by that score, truncated to topK.
// Metadata is preserved untouched; equal scores keep retrieval order.
type Reranker interface {
	Rerank(ctx context.Context, query string, candidates []domain.Candidate, topK int) ([]domain.Candidate, error)
}
