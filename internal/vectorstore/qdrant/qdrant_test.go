package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperqa/internal/domain"
)

func testEntry() domain.VectorEntry {
	return domain.VectorEntry{
		ChunkID: "11111111-2222-3333-4444-555555555555",
		Vector:  []float32{0.6, 0.8},
		Chunk: domain.Chunk{
			ID:             "11111111-2222-3333-4444-555555555555",
			DocumentID:     "doc-1",
			SourceFilename: "a.pdf",
			PageNumber:     2,
			SectionHeading: "Results",
			Text:           "some chunk text",
			TokenCount:     3,
		},
	}
}

func TestUpsertCreatesCollectionAndWritesPoints(t *testing.T) {
	var createBody, upsertBody map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /collections/papers", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&createBody))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PUT /collections/papers/points", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&upsertBody))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(Config{URL: srv.URL, APIKey: "secret", Collection: "papers"})
	require.NoError(t, s.Upsert(context.Background(), []domain.VectorEntry{testEntry()}))

	vectors := createBody["vectors"].(map[string]any)
	assert.Equal(t, float64(2), vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])

	points := upsertBody["points"].([]any)
	require.Len(t, points, 1)
	point := points[0].(map[string]any)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", point["id"])
	payload := point["payload"].(map[string]any)
	assert.Equal(t, "doc-1", payload["document_id"])
	assert.Equal(t, "a.pdf", payload["source_filename"])
	assert.Equal(t, float64(2), payload["page_number"])
}

func TestUpsertToleratesExistingCollection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /collections/papers", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	mux.HandleFunc("PUT /collections/papers/points", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(Config{URL: srv.URL, Collection: "papers"})
	assert.NoError(t, s.Upsert(context.Background(), []domain.VectorEntry{testEntry()}))
}

func TestQueryReconstructsChunks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/papers/points/search", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(2), req["limit"])
		assert.Equal(t, true, req["with_payload"])
		json.NewEncoder(w).Encode(map[string]any{
			"result": []map[string]any{
				{
					"id":    "point-1",
					"score": 0.93,
					"payload": map[string]any{
						"document_id":     "doc-1",
						"source_filename": "a.pdf",
						"page_number":     2,
						"section_heading": "Results",
						"text":            "some chunk text",
						"token_count":     3,
					},
				},
			},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(Config{URL: srv.URL, Collection: "papers"})
	res, err := s.Query(context.Background(), []float32{0.6, 0.8}, 2)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "point-1", res[0].ChunkID)
	assert.InDelta(t, 0.93, float64(res[0].Score), 1e-6)
	assert.Equal(t, domain.Chunk{
		ID:             "point-1",
		DocumentID:     "doc-1",
		SourceFilename: "a.pdf",
		PageNumber:     2,
		SectionHeading: "Results",
		Text:           "some chunk text",
		TokenCount:     3,
	}, res[0].Chunk)
}

func TestQueryMissingCollectionIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(Config{URL: srv.URL, Collection: "papers"})
	res, err := s.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestDeleteDocumentSendsFilter(t *testing.T) {
	var body map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /collections/papers/points/delete", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := New(Config{URL: srv.URL, Collection: "papers"})
	require.NoError(t, s.DeleteDocument(context.Background(), "doc-1"))

	filter := body["filter"].(map[string]any)
	must := filter["must"].([]any)
	require.Len(t, must, 1)
	cond := must[0].(map[string]any)
	assert.Equal(t, "document_id", cond["key"])
	assert.Equal(t, map[string]any{"value": "doc-1"}, cond["match"])
}

func TestDeleteDocumentMissingCollectionIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := New(Config{URL: srv.URL, Collection: "papers"})
	assert.NoError(t, s.DeleteDocument(context.Background(), "doc-1"))
}
