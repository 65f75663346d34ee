package analysis

import (
	"unicode"
	"unicode/utf8"
)

// WhitespaceAnalyzer splits text into runs of non-space runes, case and
// punctuation intact. Pattern "error:" matches only the field "error:".
type WhitespaceAnalyzer struct{}

// NewWhitespaceAnalyzer creates a new WhitespaceAnalyzer.
func NewWhitespaceAnalyzer() *WhitespaceAnalyzer {
	return &WhitespaceAnalyzer{}
}

// Analyze returns one token per field. Offsets are taken while splitting,
// so a hit spanning several fields maps back to the exact bytes of text,
// including whatever whitespace separated them.
func (a *WhitespaceAnalyzer) Analyze(text string) []Token {
	var tokens []Token
	start := -1
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = appendField(tokens, text, start, i)
				start = -1
			}
		} else if start < 0 {
			start = i
		}
		i += size
	}
	if start >= 0 {
		tokens = appendField(tokens, text, start, len(text))
	}
	return tokens
}

func appendField(tokens []Token, text string, start, end int) []Token {
	return append(tokens, Token{
		Term:      text[start:end],
		Position:  len(tokens),
		StartByte: start,
		EndByte:   end,
	})
}
