package domain

import (
	"fmt"
	"strings"
)

// ExtractionError reports a malformed or unreadable source document.
// It is surfaced per document and never aborts a batch.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// IndexingError reports an embedding or upsert failure for one batch after
// retries were exhausted. ChunkIDs identifies the failed batch; entries
// already upserted are not rolled back, so re-running the document is safe.
type IndexingError struct {
	DocumentID string
	ChunkIDs   []string
	Err        error
}

func (e *IndexingError) Error() string {
	return fmt.Sprintf("index document %s (chunks %s): %v",
		e.DocumentID, strings.Join(e.ChunkIDs, ", "), e.Err)
}

func (e *IndexingError) Unwrap() error { return e.Err }

// RetrievalError reports a failure to embed a query or reach the vector
// collection. Not retried inside the core.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string { return fmt.Sprintf("retrieval: %v", e.Err) }

func (e *RetrievalError) Unwrap() error { return e.Err }

// SynthesisError reports a language-model call failure. The original query
// is attached so the caller can apply its own retry policy.
type SynthesisError struct {
	Query string
	Err   error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize answer for %q: %v", e.Query, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }
