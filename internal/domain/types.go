package domain

// BlockType classifies a block of extracted document content.
type BlockType string

const (
	BlockText         BlockType = "text"
	BlockTable        BlockType = "table"
	BlockImageCaption BlockType = "image_caption"
	BlockReference    BlockType = "reference"
)

// Block is one ordered unit of extracted content within a document.
type Block struct {
	PageNumber     int       `json:"page_number"`
	SectionHeading string    `json:"section_heading,omitempty"`
	Type           BlockType `json:"block_type"`
	Text           string    `json:"text"`
}

// DocumentRecord is the extractor's output for one source document.
// Records are immutable; re-ingesting a file produces a new record that
// supersedes the old one.
type DocumentRecord struct {
	ID         string  `json:"document_id"`
	Title      string  `json:"title"`
	SourcePath string  `json:"source_path"`
	Blocks     []Block `json:"blocks"`
}

// SourceFilename returns the basename the record was extracted from,
// used for citations.
func (r DocumentRecord) SourceFilename() string {
	for i := len(r.SourcePath) - 1; i >= 0; i-- {
		if r.SourcePath[i] == '/' {
			return r.SourcePath[i+1:]
		}
	}
	return r.SourcePath
}

// Chunk is a bounded, provenance-tagged span of document text used as the
// unit of retrieval. The ID is content-addressed: chunking identical content
// with the same configuration yields the same ID.
type Chunk struct {
	ID             string
	DocumentID     string
	SourceFilename string
	PageNumber     int
	SectionHeading string
	Text           string
	TokenCount     int
}

// VectorEntry is a chunk paired with its embedding, as stored in the
// vector collection. One entry per chunk ID, upsert semantics.
type VectorEntry struct {
	ChunkID string
	Vector  []float32
	Chunk   Chunk
}

// RetrievalResult is a scored match produced for a single query.
type RetrievalResult struct {
	ChunkID string
	Score   float32
	Chunk   Chunk
}

// Citation names the origin of context the model was shown.
type Citation struct {
	SourceFilename string `json:"source_filename"`
	PageNumber     int    `json:"page_number"`
}

// Answer is the synthesized response to a document question together with
// the sources actually included in the prompt, deduplicated in rank order.
type Answer struct {
	Text    string     `json:"text"`
	Sources []Citation `json:"sources"`
}

// Paper is one external literature search hit.
type Paper struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Summary string   `json:"summary"`
	Link    string   `json:"link"`
}
