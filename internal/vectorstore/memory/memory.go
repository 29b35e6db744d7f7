// Package memory provides an in-process vector store using brute-force
// cosine similarity. Vectors are expected L2-normalized, so similarity is
// a plain dot product.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"paperqa/internal/domain"
)

var _ domain.VectorStore = (*Store)(nil)

// Store keeps entries in insertion order; replacing an entry keeps its
// original slot so ranking ties stay stable across re-indexing.
type Store struct {
	mu      sync.RWMutex
	entries []domain.VectorEntry
	slots   map[string]int
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{slots: make(map[string]int)}
}

// Upsert inserts or replaces entries keyed by chunk ID.
func (s *Store) Upsert(_ context.Context, entries []domain.VectorEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		if e.ChunkID == "" {
			return errors.New("vector entry missing chunk id")
		}
		if len(s.entries) > 0 && len(e.Vector) != len(s.entries[0].Vector) {
			return errors.New("vector dimension mismatch")
		}
		if slot, ok := s.slots[e.ChunkID]; ok {
			s.entries[slot] = e
			continue
		}
		s.slots[e.ChunkID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return nil
}

// Query returns the topK most similar entries by descending score, ties
// broken by insertion order. An empty store yields an empty result.
func (s *Store) Query(_ context.Context, vector []float32, topK int) ([]domain.RetrievalResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 || len(s.entries) == 0 {
		return nil, nil
	}
	results := make([]domain.RetrievalResult, len(s.entries))
	for i, e := range s.entries {
		results[i] = domain.RetrievalResult{
			ChunkID: e.ChunkID,
			Score:   dot(e.Vector, vector),
			Chunk:   e.Chunk,
		}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// DeleteDocument removes every entry belonging to documentID. Deleting a
// document with no entries is a no-op.
func (s *Store) DeleteDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Chunk.DocumentID != documentID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	s.slots = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.slots[e.ChunkID] = i
	}
	return nil
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
