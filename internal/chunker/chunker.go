// Package chunker splits extracted document records into overlapping,
// provenance-tagged retrieval chunks.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"paperqa/internal/domain"
	"paperqa/internal/token"
)

var _ domain.Chunker = (*Chunker)(nil)

// Default token window configuration.
const (
	DefaultMinTokens     = 80
	DefaultTargetTokens  = 300
	DefaultMaxTokens     = 500
	DefaultOverlapTokens = 50
)

// idNamespace seeds content-addressed chunk IDs. Fixed so that chunking the
// same content always yields the same ID.
var idNamespace = uuid.MustParse("8f3c1a52-04b7-47d9-9b0f-2e6a5d6c9e41")

// Chunker assembles sentences into chunks within a token window, with a
// configured overlap between consecutive chunks. Table blocks become
// standalone chunks regardless of size.
type Chunker struct {
	minTokens     int
	targetTokens  int
	maxTokens     int
	overlapTokens int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithWindow sets the minimum, target and maximum chunk sizes in tokens.
func WithWindow(minTokens, targetTokens, maxTokens int) Option {
	return func(c *Chunker) {
		if minTokens > 0 {
			c.minTokens = minTokens
		}
		if targetTokens > 0 {
			c.targetTokens = targetTokens
		}
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
	}
}

// WithOverlap sets the token overlap between consecutive chunks.
func WithOverlap(overlapTokens int) Option {
	return func(c *Chunker) {
		if overlapTokens >= 0 {
			c.overlapTokens = overlapTokens
		}
	}
}

// New creates a Chunker with validated defaults.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		minTokens:     DefaultMinTokens,
		targetTokens:  DefaultTargetTokens,
		maxTokens:     DefaultMaxTokens,
		overlapTokens: DefaultOverlapTokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.targetTokens > c.maxTokens {
		c.targetTokens = c.maxTokens
	}
	if c.minTokens > c.targetTokens {
		c.minTokens = c.targetTokens
	}
	// Overlap must leave room to advance.
	if c.overlapTokens >= c.targetTokens {
		c.overlapTokens = c.targetTokens / 4
	}
	return c
}

// sentence is a splitting unit with the provenance of its source block.
type sentence struct {
	text    string
	tokens  int
	page    int
	heading string
	offset  int
}

// Chunk splits record into chunks. Chunking the same record with the same
// configuration produces identical chunk IDs.
func (c *Chunker) Chunk(record domain.DocumentRecord) ([]domain.Chunk, error) {
	filename := record.SourceFilename()
	var chunks []domain.Chunk
	var run []sentence
	offset := 0

	flush := func() {
		chunks = append(chunks, c.assemble(record.ID, filename, run)...)
		run = nil
	}

	for _, b := range record.Blocks {
		text := strings.TrimSpace(b.Text)
		if text == "" {
			continue
		}
		if b.Type == domain.BlockTable {
			// Tables keep their structure: one chunk per table block,
			// never merged with prose and never split.
			flush()
			n := token.Count(text)
			chunks = append(chunks, domain.Chunk{
				ID:             chunkID(record.ID, offset, text),
				DocumentID:     record.ID,
				SourceFilename: filename,
				PageNumber:     b.PageNumber,
				SectionHeading: b.SectionHeading,
				Text:           text,
				TokenCount:     n,
			})
			offset += n
			continue
		}
		for _, s := range token.SplitSentences(text) {
			for _, piece := range c.cutOversize(s) {
				n := token.Count(piece)
				run = append(run, sentence{
					text:    piece,
					tokens:  n,
					page:    b.PageNumber,
					heading: b.SectionHeading,
					offset:  offset,
				})
				offset += n
			}
		}
	}
	flush()
	return chunks, nil
}

// cutOversize hard-splits a sentence that alone exceeds the window, since
// no sentence boundary exists inside it.
func (c *Chunker) cutOversize(s string) []string {
	words := token.SplitWords(s)
	if len(words) <= c.maxTokens {
		return []string{s}
	}
	var out []string
	for start := 0; start < len(words); start += c.maxTokens {
		end := start + c.maxTokens
		if end > len(words) {
			end = len(words)
		}
		out = append(out, strings.Join(words[start:end], " "))
	}
	return out
}

// assemble greedily packs sentences into chunks of roughly targetTokens,
// overlapping consecutive chunks by overlapTokens.
func (c *Chunker) assemble(docID, filename string, sents []sentence) []domain.Chunk {
	var chunks []domain.Chunk
	var starts []int
	i := 0
	for i < len(sents) {
		j := i
		tokens := 0
		for j < len(sents) {
			next := sents[j].tokens
			if j > i && tokens+next > c.maxTokens {
				break
			}
			tokens += next
			j++
			if tokens >= c.targetTokens {
				break
			}
		}

		// A short tail that cannot stand alone folds into the previous
		// chunk when it still fits the window.
		if j == len(sents) && tokens < c.minTokens && len(chunks) > 0 {
			last := &chunks[len(chunks)-1]
			if last.TokenCount+tokens <= c.maxTokens {
				last.Text = last.Text + " " + joinSentences(sents[i:j])
				last.TokenCount += tokens
				last.ID = chunkID(docID, starts[len(starts)-1], last.Text)
				break
			}
		}

		text := joinSentences(sents[i:j])
		starts = append(starts, sents[i].offset)
		chunks = append(chunks, domain.Chunk{
			ID:             chunkID(docID, sents[i].offset, text),
			DocumentID:     docID,
			SourceFilename: filename,
			PageNumber:     sents[i].page,
			SectionHeading: sents[i].heading,
			Text:           text,
			TokenCount:     tokens,
		})
		if j == len(sents) {
			break
		}

		// Step back over trailing sentences until the overlap budget is
		// covered, always advancing by at least one sentence.
		k := j
		back := 0
		for k > i+1 && back < c.overlapTokens {
			k--
			back += sents[k].tokens
		}
		i = k
	}
	return chunks
}

func joinSentences(sents []sentence) string {
	parts := make([]string, len(sents))
	for i, s := range sents {
		parts[i] = s.text
	}
	return strings.Join(parts, " ")
}

// chunkID derives a stable, content-addressed identifier. The UUID form
// keeps IDs directly usable as vector store point IDs.
func chunkID(docID string, offset int, text string) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s:%d:%s", docID, offset, text))).String()
}
