// Package synthesizer assembles a bounded-size prompt from retrieved
// chunks and calls the language model, tracking which sources the model
// was actually shown.
package synthesizer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"paperqa/internal/domain"
	"paperqa/internal/token"
)

// DefaultContextTokenBudget bounds the total size of chunk text included
// in a prompt.
const DefaultContextTokenBudget = 3000

// NoContextAnswer is returned without calling the model when retrieval
// produced nothing usable.
const NoContextAnswer = "No relevant context found in the indexed documents."

const preamble = `You are a concise research assistant. Answer the question using ONLY the provided context passages. Each passage is labeled with its source file and page; cite them when you use a passage. If the answer is not contained in the context, reply "I don't know based on the provided documents." Keep answers short and to the point.`

// Synthesizer builds grounded prompts and returns answers with citations.
type Synthesizer struct {
	generator domain.Generator
	budget    int
	log       *zap.Logger
}

// New creates a Synthesizer with the given context token budget.
func New(generator domain.Generator, contextTokenBudget int, log *zap.Logger) *Synthesizer {
	if contextTokenBudget <= 0 {
		contextTokenBudget = DefaultContextTokenBudget
	}
	return &Synthesizer{generator: generator, budget: contextTokenBudget, log: log}
}

// Synthesize answers query from the retrieved chunks. Chunks are included
// greedily in rank order until the token budget is exhausted; a chunk that
// does not fit is dropped whole, never truncated, so citations stay honest.
// With no surviving chunks the model is not called at all.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, results []domain.RetrievalResult) (domain.Answer, error) {
	prompt, included := s.Assemble(query, results)
	if len(included) == 0 {
		s.log.Debug("no context survived the budget, skipping model call",
			zap.String("query", query))
		return domain.Answer{Text: NoContextAnswer}, nil
	}
	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.Answer{}, &domain.SynthesisError{Query: query, Err: err}
	}
	return domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: citations(included),
	}, nil
}

// Assemble builds the prompt and reports which results made it in. The
// included results are always a contiguous prefix of the ranked input.
func (s *Synthesizer) Assemble(query string, results []domain.RetrievalResult) (string, []domain.RetrievalResult) {
	var ctxParts []string
	var included []domain.RetrievalResult
	used := 0
	for _, r := range results {
		if strings.TrimSpace(r.Chunk.Text) == "" {
			break
		}
		section := fmt.Sprintf("[%s p.%d] %s", r.Chunk.SourceFilename, r.Chunk.PageNumber, r.Chunk.Text)
		cost := token.Count(section)
		if used+cost > s.budget {
			break
		}
		used += cost
		ctxParts = append(ctxParts, section)
		included = append(included, r)
	}
	if len(included) == 0 {
		return "", nil
	}
	prompt := preamble + "\n\nContext:\n" + strings.Join(ctxParts, "\n\n") +
		"\n\nQuestion: " + query + "\n\nAnswer:"
	return prompt, included
}

// citations lists the sources of the included chunks, deduplicated and
// order-preserving.
func citations(included []domain.RetrievalResult) []domain.Citation {
	seen := make(map[domain.Citation]struct{}, len(included))
	var out []domain.Citation
	for _, r := range included {
		c := domain.Citation{
			SourceFilename: r.Chunk.SourceFilename,
			PageNumber:     r.Chunk.PageNumber,
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
