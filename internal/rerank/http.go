// Package rerank provides cross-encoder reranking over an HTTP scoring
// service, plus the rank-score feature extraction consumed by the confidence
// calibrator.
package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

// HTTPReranker scores query/candidate pairs against a cross-encoder service.
type HTTPReranker struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPReranker creates a reranker against the configured scoring endpoint.
func NewHTTPReranker(cfg *config.ModelsConfig) *HTTPReranker {
	return &HTTPReranker{
		baseURL: cfg.RerankerURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecs) * time.Second,
		},
	}
}

var _ port.Reranker = (*HTTPReranker)(nil)

type rerankRequest struct {
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
}

type rerankResponse struct {
	Scores []float64 `json:"scores"`
}

// Rerank scores every candidate against the query and returns the top K by
// score descending. Ties keep retrieval order; the sort is stable over the
// retrieval-ordered input.
func (r *HTTPReranker) Rerank(ctx context.Context, query string, candidates []domain.Candidate, topK int) ([]domain.Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	documents := make([]string, len(candidates))
	for i, c := range candidates {
		documents[i] = c.Text
	}

	payload, err := json.Marshal(rerankRequest{Query: query, Documents: documents})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rerank", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRerankUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrRerankUnavailable, resp.StatusCode)
	}

	var parsed rerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode rerank response: %w", err)
	}
	if len(parsed.Scores) != len(candidates) {
		return nil, fmt.Errorf("rerank: got %d scores for %d candidates", len(parsed.Scores), len(candidates))
	}

	scored := make([]domain.Candidate, len(candidates))
	for i, c := range candidates {
		score := parsed.Scores[i]
		c.RerankScore = &score
		scored[i] = c
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return *scored[i].RerankScore > *scored[j].RerankScore
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}
