package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/wahajaslm/tarco/internal/config"
	"github.com/wahajaslm/tarco/internal/domain"
	"github.com/wahajaslm/tarco/internal/port"
)

// IndexWorker rebuilds the vector index from the reference store's leaf
// nomenclature items. Batches are embedded and indexed concurrently, bounded
// by a semaphore.
type IndexWorker struct {
	refs        port.ReferenceRepository
	embedder    port.Embedder
	index       port.VectorIndex
	batchSize   int
	concurrency int

	running atomic.Bool
}

// NewIndexWorker creates the reindex worker.
func NewIndexWorker(refs port.ReferenceRepository, embedder port.Embedder, index port.VectorIndex, cfg config.IndexerConfig) *IndexWorker {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 64
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &IndexWorker{
		refs:        refs,
		embedder:    embedder,
		index:       index,
		batchSize:   batchSize,
		concurrency: concurrency,
	}
}

// Running reports whether a reindex is in flight.
func (w *IndexWorker) Running() bool {
	return w.running.Load()
}

// Reindex embeds and indexes every leaf item. Only one reindex runs at a
// time; a second call while one is in flight returns an error immediately.
func (w *IndexWorker) Reindex(ctx context.Context) (int, error) {
	if !w.running.CompareAndSwap(false, true) {
		return 0, fmt.Errorf("reindex already in progress")
	}
	defer w.running.Store(false)

	items, err := w.refs.ListLeafItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("list leaf items: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	log.Printf("index worker: reindexing %d leaf items", len(items))

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, w.concurrency)
		mu       sync.Mutex
		firstErr error
		indexed  int
	)

	for start := 0; start < len(items); start += w.batchSize {
		end := start + w.batchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]

		wg.Add(1)
		sem <- struct{}{}
		go func(batch []domain.ReferenceItem) {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := w.indexBatch(ctx, batch)
			mu.Lock()
			defer mu.Unlock()
			indexed += n
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}(batch)
	}
	wg.Wait()

	if firstErr != nil {
		return indexed, fmt.Errorf("reindex: %w", firstErr)
	}
	log.Printf("index worker: reindex complete, %d items indexed", indexed)
	return indexed, nil
}

func (w *IndexWorker) indexBatch(ctx context.Context, batch []domain.ReferenceItem) (int, error) {
	points := make([]port.IndexPoint, 0, len(batch))
	for _, item := range batch {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		vector, err := w.embedder.Embed(ctx, item.Description)
		if err != nil {
			return 0, fmt.Errorf("embed %s: %w", item.Code, err)
		}
		points = append(points, port.IndexPoint{
			Vector: vector,
			Code:   item.Code,
			Text:   item.Description,
			Metadata: map[string]string{
				"level": fmt.Sprintf("%d", item.Level),
			},
		})
	}
	if err := w.index.Index(ctx, points); err != nil {
		return 0, fmt.Errorf("index batch: %w", err)
	}
	return len(points), nil
}
