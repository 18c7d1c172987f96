package util

import (
	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter estimates token counts for history budgeting. It wraps a
// tiktoken codec and degrades to a characters/4 heuristic when the codec is
// unavailable or fails on an input.
type TokenCounter struct {
	codec tokenizer.Codec
}

// NewTokenCounter builds a counter on the cl100k_base encoding used by the
// chat models this bot targets.
func NewTokenCounter() *TokenCounter {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{codec: codec}
}

// Count returns the estimated number of tokens in text.
func (tc *TokenCounter) Count(text string) int {
	if tc == nil || tc.codec == nil {
		return len(text) / 4
	}
	count, err := tc.codec.Count(text)
	if err != nil {
		return len(text) / 4
	}
	return count
}
