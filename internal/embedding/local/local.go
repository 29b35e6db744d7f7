// Package local provides a deterministic offline embedder. It hashes word
// tokens into a fixed-size bag-of-words vector, so similar texts land near
// each other without any network call. Useful for tests and air-gapped runs.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"paperqa/internal/domain"
)

var _ domain.Embedder = (*Embedder)(nil)

// DefaultDimension is the vector size when none is configured.
const DefaultDimension = 256

// Embedder hashes tokens into a fixed-length L2-normalized vector.
type Embedder struct {
	dim int
}

// New creates a local hash embedder with the given dimension.
func New(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &Embedder{dim: dimension}
}

// Embed produces the embedding for a single text. Texts with no word
// tokens embed to the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, e.dim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32())%e.dim]++
	}
	l2normalize(vec)
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *Embedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// Dimension returns the vector size.
func (e *Embedder) Dimension() int { return e.dim }

// ModelName identifies this embedding space.
func (e *Embedder) ModelName() string { return "local-hash-v1" }

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
