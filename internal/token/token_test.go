package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t ", 0},
		{"single word", "hello", 1},
		{"sentence", "the quick brown fox", 4},
		{"extra whitespace", "  a   b \n c  ", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.text))
		})
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"one sentence", "This is a test.", []string{"This is a test."}},
		{
			"multiple terminators",
			"First. Second! Third?",
			[]string{"First.", "Second!", "Third?"},
		},
		{
			"trailing text without terminator is kept",
			"A complete sentence. and a dangling tail",
			[]string{"A complete sentence.", "and a dangling tail"},
		},
		{"no terminator at all", "just some words", []string{"just some words"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}

func TestSplitSentencesLossless(t *testing.T) {
	text := "One sentence here. Another one follows! A question? trailing words"
	var words int
	for _, s := range SplitSentences(text) {
		words += Count(s)
	}
	assert.Equal(t, Count(text), words)
}
