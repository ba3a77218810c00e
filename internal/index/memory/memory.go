// Package memory implements an in-process vector index for development and
// tests.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wahajaslm/tarco/internal/port"
)

type entry struct {
	id       string
	vector   []float32
	code     string
	text     string
	metadata map[string]string
}

// Index is a mutex-guarded in-memory vector index with cosine similarity.
type Index struct {
	mu      sync.RWMutex
	entries []entry
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{}
}

var _ port.VectorIndex = (*Index)(nil)

func (m *Index) Index(ctx context.Context, points []port.IndexPoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range points {
		m.entries = append(m.entries, entry{
			id:       uuid.New().String(),
			vector:   p.Vector,
			code:     p.Code,
			text:     p.Text,
			metadata: p.Metadata,
		})
	}
	return nil
}

func (m *Index) Search(ctx context.Context, vector []float32, k int, filters map[string]string) ([]port.SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]port.SearchResult, 0, len(m.entries))
	for _, e := range m.entries {
		if !matches(e.metadata, filters) {
			continue
		}
		results = append(results, port.SearchResult{
			Score:    cosine(vector, e.vector),
			Code:     e.code,
			Text:     e.text,
			Metadata: e.metadata,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *Index) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func matches(metadata, filters map[string]string) bool {
	for key, want := range filters {
		if metadata[key] != want {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
