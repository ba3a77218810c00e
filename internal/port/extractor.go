package port

import (
	"context"

	"github.com/wahajaslm/tarco/internal/domain"
)

// ExtractedQuery carries the parameters pulled out of a free-text message.
type ExtractedQuery struct {
	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	ProductDescription string `json:"product_description"`
	Quantity           *int   `json:"quantity"`
}

// QueryExtractor abstracts LLM-based parameter extraction from natural
// language. A thin call-and-parse wrapper; extraction failure returns an
// empty ExtractedQuery, not an error the caller must branch on.
type QueryExtractor interface {
	Extract(ctx context.Context, message string) (*ExtractedQuery, error)
}

// Explainer generates guarded human-readable annotations from an
// already-built deterministic payload. It may paraphrase the payload's
// facts; it must never introduce numeric values of its own.
type Explainer interface {
	Annotate(ctx context.Context, resp *domain.ComplianceResponse) (*domain.Annotations, error)
}
