// Package indexer embeds chunks in batches and upserts them into the
// vector store.
package indexer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"paperqa/internal/domain"
)

// Default batching and retry configuration.
const (
	DefaultBatchSize  = 32
	DefaultMaxRetries = 3
)

// Indexer writes chunk embeddings to the vector store. Upserts are
// idempotent by content-addressed chunk ID, so a failed document can be
// re-run without rolling back partial progress.
type Indexer struct {
	embedder   domain.Embedder
	store      domain.VectorStore
	batchSize  int
	maxRetries int
	log        *zap.Logger
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithBatchSize sets the number of chunks embedded per model invocation.
func WithBatchSize(n int) Option {
	return func(ix *Indexer) {
		if n > 0 {
			ix.batchSize = n
		}
	}
}

// WithMaxRetries sets how many times a failed batch is retried before the
// error surfaces.
func WithMaxRetries(n int) Option {
	return func(ix *Indexer) {
		if n >= 0 {
			ix.maxRetries = n
		}
	}
}

// New creates an Indexer.
func New(embedder domain.Embedder, store domain.VectorStore, log *zap.Logger, opts ...Option) *Indexer {
	ix := &Indexer{
		embedder:   embedder,
		store:      store,
		batchSize:  DefaultBatchSize,
		maxRetries: DefaultMaxRetries,
		log:        log,
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// IndexDocument replaces the document's entries in the vector store with
// embeddings of the given chunks. Existing entries for the document are
// deleted first so stale chunks never linger after content changes.
func (ix *Indexer) IndexDocument(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	if err := ix.store.DeleteDocument(ctx, documentID); err != nil {
		return &domain.IndexingError{DocumentID: documentID, Err: err}
	}
	for start := 0; start < len(chunks); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		if err := ix.indexBatch(ctx, batch); err != nil {
			return &domain.IndexingError{
				DocumentID: documentID,
				ChunkIDs:   chunkIDs(batch),
				Err:        err,
			}
		}
		ix.log.Debug("indexed batch",
			zap.String("document_id", documentID),
			zap.Int("batch_start", start),
			zap.Int("batch_size", len(batch)))
	}
	return nil
}

func (ix *Indexer) indexBatch(ctx context.Context, batch []domain.Chunk) error {
	texts := make([]string, len(batch))
	for i, ch := range batch {
		texts[i] = ch.Text
	}
	var lastErr error
	for attempt := 0; attempt <= ix.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay(attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		vectors, err := ix.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			lastErr = err
			ix.log.Warn("embed batch failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		entries := make([]domain.VectorEntry, len(batch))
		for i, ch := range batch {
			entries[i] = domain.VectorEntry{ChunkID: ch.ID, Vector: vectors[i], Chunk: ch}
		}
		if err := ix.store.Upsert(ctx, entries); err != nil {
			lastErr = err
			ix.log.Warn("upsert batch failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		return nil
	}
	return lastErr
}

func chunkIDs(chunks []domain.Chunk) []string {
	ids := make([]string, len(chunks))
	for i, ch := range chunks {
		ids[i] = ch.ID
	}
	return ids
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
