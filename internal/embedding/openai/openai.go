// Package openai provides an Embedder backed by the OpenAI embeddings API
// (or any compatible endpoint via base URL override).
package openai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"paperqa/internal/domain"
)

var _ domain.Embedder = (*Embedder)(nil)

// Default configuration values.
const (
	DefaultModel     = "text-embedding-3-small"
	DefaultAPIKeyEnv = "OPENAI_API_KEY"
	DefaultTimeout   = 30 * time.Second
)

var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config configures the embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// Embedder generates embeddings via the OpenAI API.
type Embedder struct {
	client *openai.Client
	model  string
	dim    int
}

// New creates an OpenAI embedder, reading the API key from the configured
// environment variable.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	clientCfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	dim, ok := modelDimensions[cfg.Model]
	if !ok {
		dim = modelDimensions[DefaultModel]
	}
	return &Embedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		dim:    dim,
	}, nil
}

// Embed generates an embedding for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one API call.
// Vectors are returned in input order and L2-normalized so stores can
// compare plain dot products.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("openai embeddings: out-of-range index %d", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		copy(vec, d.Embedding)
		l2normalize(vec)
		out[d.Index] = vec
	}
	return out, nil
}

// Dimension returns the embedding vector size for the configured model.
func (e *Embedder) Dimension() int { return e.dim }

// ModelName identifies this embedding space.
func (e *Embedder) ModelName() string { return "openai-" + e.model }

func l2normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
