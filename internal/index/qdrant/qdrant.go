// Package qdrant implements the vector index over Qdrant's REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/port"
)

// Index is a Qdrant-backed vector index.
type Index struct {
	baseURL    string
	collection string
	dimension  int
	httpClient *http.Client
}

// New creates a Qdrant index client.
func New(cfg *config.QdrantConfig) *Index {
	return &Index{
		baseURL:    cfg.URL,
		collection: cfg.Collection,
		dimension:  cfg.Dimension,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

var _ port.VectorIndex = (*Index)(nil)

// EnsureCollection creates the collection if it does not exist.
func (q *Index) EnsureCollection(ctx context.Context) error {
	body := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     q.dimension,
			"distance": "Cosine",
		},
	}
	resp, err := q.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", q.collection), body)
	if err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	defer resp.Body.Close()
	// 409 means the collection already exists
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusConflict {
		return fmt.Errorf("ensure collection: unexpected status %d", resp.StatusCode)
	}
	return nil
}

type qdrantPoint struct {
	ID      string                 `json:"id"`
	Vector  []float32              `json:"vector"`
	Payload map[string]interface{} `json:"payload"`
}

func (q *Index) Index(ctx context.Context, points []port.IndexPoint) error {
	if len(points) == 0 {
		return nil
	}
	qPoints := make([]qdrantPoint, 0, len(points))
	for _, p := range points {
		payload := map[string]interface{}{
			"code": p.Code,
			"text": p.Text,
		}
		for k, v := range p.Metadata {
			payload[k] = v
		}
		qPoints = append(qPoints, qdrantPoint{
			ID:      uuid.New().String(),
			Vector:  p.Vector,
			Payload: payload,
		})
	}

	body := map[string]interface{}{"points": qPoints}
	resp, err := q.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/points?wait=true", q.collection), body)
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upsert points: unexpected status %d", resp.StatusCode)
	}
	return nil
}

type searchRequest struct {
	Vector      []float32     `json:"vector"`
	Limit       int           `json:"limit"`
	WithPayload bool          `json:"with_payload"`
	Filter      *searchFilter `json:"filter,omitempty"`
}

type searchFilter struct {
	Must []matchClause `json:"must"`
}

type matchClause struct {
	Key   string     `json:"key"`
	Match matchValue `json:"match"`
}

type matchValue struct {
	Value string `json:"value"`
}

type searchResponse struct {
	Result []struct {
		Score   float64                `json:"score"`
		Payload map[string]interface{} `json:"payload"`
	} `json:"result"`
}

func (q *Index) Search(ctx context.Context, vector []float32, k int, filters map[string]string) ([]port.SearchResult, error) {
	req := searchRequest{
		Vector:      vector,
		Limit:       k,
		WithPayload: true,
	}
	if len(filters) > 0 {
		filter := &searchFilter{}
		for key, value := range filters {
			filter.Must = append(filter.Must, matchClause{Key: key, Match: matchValue{Value: value}})
		}
		req.Filter = filter
	}

	resp, err := q.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/search", q.collection), req)
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search points: unexpected status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]port.SearchResult, 0, len(parsed.Result))
	for _, hit := range parsed.Result {
		result := port.SearchResult{Score: hit.Score, Metadata: map[string]string{}}
		for key, value := range hit.Payload {
			s, ok := value.(string)
			if !ok {
				continue
			}
			switch key {
			case "code":
				result.Code = s
			case "text":
				result.Text = s
			default:
				result.Metadata[key] = s
			}
		}
		results = append(results, result)
	}
	return results, nil
}

type countResponse struct {
	Result struct {
		Count int `json:"count"`
	} `json:"result"`
}

func (q *Index) Count(ctx context.Context) (int, error) {
	resp, err := q.do(ctx, http.MethodPost, fmt.Sprintf("/collections/%s/points/count", q.collection),
		map[string]interface{}{"exact": true})
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("count points: unexpected status %d", resp.StatusCode)
	}

	var parsed countResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode count response: %w", err)
	}
	return parsed.Result.Count, nil
}

func (q *Index) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call qdrant: %w", err)
	}
	return resp, nil
}
