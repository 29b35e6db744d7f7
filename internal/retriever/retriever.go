// Package retriever answers queries with the most similar indexed chunks.
package retriever

import (
	"context"

	"paperqa/internal/domain"
)

// DefaultTopK is the number of chunks returned when the caller does not
// specify one.
const DefaultTopK = 5

// Retriever embeds a query with the index-time embedder and searches the
// vector store. It never writes.
type Retriever struct {
	embedder domain.Embedder
	store    domain.VectorStore
}

// New creates a Retriever. The embedder must be the same one used at
// index time.
func New(embedder domain.Embedder, store domain.VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns up to topK chunks ranked by descending similarity.
// An empty collection yields an empty result; topK larger than the
// collection returns everything.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]domain.RetrievalResult, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	results, err := r.store.Query(ctx, vec, topK)
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	return results, nil
}
