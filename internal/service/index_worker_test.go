package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/mocks"
)

func leafItems(n int) []domain.ReferenceItem {
	items := make([]domain.ReferenceItem, n)
	for i := range items {
		items[i] = domain.ReferenceItem{
			Code:        "61102000",
			Description: "cotton pullovers",
			Level:       8,
			ValidFrom:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			IsLeaf:      true,
		}
	}
	return items
}

func TestReindexEmbedsAndIndexesAllItems(t *testing.T) {
	refs := &mocks.MockReferenceRepository{}
	embedder := &mocks.MockEmbedder{}
	index := &mocks.MockVectorIndex{}

	refs.On("ListLeafItems", mock.Anything).Return(leafItems(10), nil)
	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	index.On("Index", mock.Anything, mock.Anything).Return(nil)

	w := NewIndexWorker(refs, embedder, index, config.IndexerConfig{BatchSize: 4, Concurrency: 2})
	n, err := w.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	embedder.AssertNumberOfCalls(t, "Embed", 10)
	// 10 items in batches of 4 makes 3 index calls.
	index.AssertNumberOfCalls(t, "Index", 3)
}

func TestReindexEmptyStore(t *testing.T) {
	refs := &mocks.MockReferenceRepository{}
	refs.On("ListLeafItems", mock.Anything).Return([]domain.ReferenceItem{}, nil)

	w := NewIndexWorker(refs, &mocks.MockEmbedder{}, &mocks.MockVectorIndex{}, config.IndexerConfig{})
	n, err := w.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestReindexSurfacesEmbeddingError(t *testing.T) {
	refs := &mocks.MockReferenceRepository{}
	embedder := &mocks.MockEmbedder{}
	index := &mocks.MockVectorIndex{}

	refs.On("ListLeafItems", mock.Anything).Return(leafItems(2), nil)
	embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("model down"))

	w := NewIndexWorker(refs, embedder, index, config.IndexerConfig{BatchSize: 2, Concurrency: 1})
	_, err := w.Reindex(context.Background())
	assert.Error(t, err)
	assert.False(t, w.Running())
}
