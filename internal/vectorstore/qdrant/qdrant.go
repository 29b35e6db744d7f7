// Package qdrant provides a vector store backed by a Qdrant instance via
// its REST API. The collection is created on first use with cosine distance.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"paperqa/internal/domain"
)

var _ domain.VectorStore = (*Store)(nil)

// Config contains connection details for a Qdrant vector store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Store is a minimal REST client to Qdrant.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu      sync.Mutex
	created bool
}

// New creates a Qdrant-backed store.
func New(cfg Config) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// Upsert writes entries as points keyed by chunk ID. Point upserts are
// atomic per ID on the Qdrant side, so concurrent writers are safe.
func (s *Store) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.ensureCollection(ctx, len(entries[0].Vector)); err != nil {
		return err
	}
	points := make([]map[string]any, len(entries))
	for i, e := range entries {
		points[i] = map[string]any{
			"id":     e.ChunkID,
			"vector": e.Vector,
			"payload": map[string]any{
				"document_id":     e.Chunk.DocumentID,
				"source_filename": e.Chunk.SourceFilename,
				"page_number":     e.Chunk.PageNumber,
				"section_heading": e.Chunk.SectionHeading,
				"text":            e.Chunk.Text,
				"token_count":     e.Chunk.TokenCount,
			},
		}
	}
	body := map[string]any{"points": points}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body)
}

// Query searches the collection and reconstructs chunk provenance from
// point payloads.
func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]domain.RetrievalResult, error) {
	if topK <= 0 {
		return nil, nil
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp)
	if err != nil {
		// A missing collection means nothing was indexed yet.
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, err
	}
	results := make([]domain.RetrievalResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		chunk := domain.Chunk{}
		if v, ok := r.Payload["document_id"].(string); ok {
			chunk.DocumentID = v
		}
		if v, ok := r.Payload["source_filename"].(string); ok {
			chunk.SourceFilename = v
		}
		if v, ok := r.Payload["page_number"].(float64); ok {
			chunk.PageNumber = int(v)
		}
		if v, ok := r.Payload["section_heading"].(string); ok {
			chunk.SectionHeading = v
		}
		if v, ok := r.Payload["text"].(string); ok {
			chunk.Text = v
		}
		if v, ok := r.Payload["token_count"].(float64); ok {
			chunk.TokenCount = int(v)
		}
		id, _ := r.ID.(string)
		chunk.ID = id
		results = append(results, domain.RetrievalResult{
			ChunkID: id,
			Score:   float32(r.Score),
			Chunk:   chunk,
		})
	}
	return results, nil
}

// DeleteDocument removes every point whose payload matches documentID.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}
	err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection), body, nil)
	if errors.Is(err, errNotFound) {
		return nil
	}
	return err
}

func (s *Store) ensureCollection(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.created {
		return nil
	}
	if dimension <= 0 {
		return errors.New("invalid vector dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant returns 409 if the collection already exists with this schema.
	err := s.putJSON(ctx, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body)
	if err != nil && !errors.Is(err, errConflict) {
		return err
	}
	s.created = true
	return nil
}

var (
	errNotFound = errors.New("qdrant: not found")
	errConflict = errors.New("qdrant: conflict")
)

func (s *Store) putJSON(ctx context.Context, url string, body any) error {
	return s.do(ctx, http.MethodPut, url, body, nil)
}

func (s *Store) postJSON(ctx context.Context, url string, body any, out any) error {
	return s.do(ctx, http.MethodPost, url, body, out)
}

func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", errNotFound, method, url)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s %s", errConflict, method, url)
	case resp.StatusCode >= 300:
		return fmt.Errorf("qdrant %s %s failed: %s", method, url, resp.Status)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
