package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		want      Route
	}{
		{
			"find paper prefix",
			"find paper on quantum error correction",
			RouteLiteratureSearch,
		},
		{
			"document question",
			"what is the main contribution of the paper?",
			RouteDocumentQuestion,
		},
		{"arxiv mention", "search arxiv for diffusion models", RouteLiteratureSearch},
		{"search for a paper phrase", "can you search for a paper about RLHF", RouteLiteratureSearch},
		{"mixed case and padding", "  Find Paper on topology  ", RouteLiteratureSearch},
		{"paper word alone is not a trigger", "summarize the paper's method section", RouteDocumentQuestion},
		{"find mid-sentence is not a prefix", "where do I find paper copies", RouteDocumentQuestion},
		{"empty utterance", "", RouteDocumentQuestion},
	}
	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Classify(tt.utterance))
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	r := New()
	u := "find paper on sparse attention"
	first := r.Classify(u)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, r.Classify(u))
	}
}

func TestClassifyExtraTriggers(t *testing.T) {
	r := New("look up literature", "  ")
	assert.Equal(t, RouteLiteratureSearch, r.Classify("please LOOK UP literature on GANs"))
	assert.Equal(t, RouteDocumentQuestion, r.Classify("what does section 3 say?"))
}
