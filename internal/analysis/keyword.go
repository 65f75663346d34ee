package analysis

import (
	"strings"
	"unicode"
)

// KeywordAnalyzer treats the whole input, minus surrounding whitespace, as
// one symbol. Sets built with it answer exact membership: Contains("  foo\n")
// is true when "foo" is a pattern, and a scan hits only whole inputs.
type KeywordAnalyzer struct{}

// NewKeywordAnalyzer creates a new KeywordAnalyzer.
func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{}
}

// Analyze returns the trimmed input as a single token whose offsets exclude
// the trimmed whitespace, or nil if nothing remains.
func (a *KeywordAnalyzer) Analyze(text string) []Token {
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	start := len(text) - len(trimmed)
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	if trimmed == "" {
		return nil
	}
	return []Token{{
		Term:      trimmed,
		StartByte: start,
		EndByte:   start + len(trimmed),
	}}
}
