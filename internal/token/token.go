// Package token provides the token accounting shared by the chunker and
// the synthesizer. Both must count the same way or the prompt budget and
// the chunk windows drift apart.
package token

import (
	"regexp"
	"strings"
)

var sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?]+)`)

// Count estimates the number of tokens in text. Whitespace-delimited words
// are used as the unit; deterministic and offline by construction.
func Count(text string) int {
	return len(strings.Fields(text))
}

// SplitSentences splits text into sentences on terminal punctuation.
// Trailing text without a terminator is kept as a final sentence so the
// split is lossless.
func SplitSentences(text string) []string {
	matches := sentenceRe.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}
	var out []string
	last := 0
	for _, m := range matches {
		s := strings.TrimSpace(text[m[0]:m[1]])
		if s != "" {
			out = append(out, s)
		}
		last = m[1]
	}
	if rest := strings.TrimSpace(text[last:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// SplitWords splits text into whitespace-delimited words, the same unit
// Count uses.
func SplitWords(text string) []string {
	return strings.Fields(text)
}
