package domain

import "context"

// Chunker splits a document record into retrieval chunks.
type Chunker interface {
	Chunk(record DocumentRecord) ([]Chunk, error)
}

// Embedder converts text into a fixed-length vector. The same embedder
// must be used at index time and query time; mixing embedding spaces
// silently degrades relevance.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelName() string
}

// VectorStore persists vector entries and supports similarity search.
// Upsert and DeleteDocument are idempotent with respect to retries; the
// store is the exclusive owner of VectorEntry records.
type VectorStore interface {
	Upsert(ctx context.Context, entries []VectorEntry) error
	Query(ctx context.Context, vector []float32, topK int) ([]RetrievalResult, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// Generator is the language-model boundary: prompt in, text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// LiteratureSearcher looks up papers in a public index.
type LiteratureSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Paper, error)
}
