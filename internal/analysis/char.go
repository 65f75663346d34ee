package analysis

import "unicode/utf8"

// RuneAnalyzer emits one token per Unicode code point, preserving case.
// Invalid UTF-8 bytes each become a U+FFFD token spanning one byte.
type RuneAnalyzer struct{}

// NewRuneAnalyzer creates a new RuneAnalyzer.
func NewRuneAnalyzer() *RuneAnalyzer {
	return &RuneAnalyzer{}
}

// Analyze returns one token per rune of text.
func (a *RuneAnalyzer) Analyze(text string) []Token {
	if text == "" {
		return nil
	}
	tokens := make([]Token, 0, utf8.RuneCountInString(text))
	for i, r := range text {
		size := utf8.RuneLen(r)
		if r == utf8.RuneError {
			_, size = utf8.DecodeRuneInString(text[i:])
		}
		tokens = append(tokens, Token{
			Term:      string(r),
			Position:  len(tokens),
			StartByte: i,
			EndByte:   i + size,
		})
	}
	return tokens
}

// ByteAnalyzer emits one token per byte, for binary or ASCII-only alphabets.
type ByteAnalyzer struct{}

// NewByteAnalyzer creates a new ByteAnalyzer.
func NewByteAnalyzer() *ByteAnalyzer {
	return &ByteAnalyzer{}
}

// Analyze returns one token per byte of text.
func (a *ByteAnalyzer) Analyze(text string) []Token {
	if text == "" {
		return nil
	}
	tokens := make([]Token, len(text))
	for i := 0; i < len(text); i++ {
		tokens[i] = Token{
			Term:      text[i : i+1],
			Position:  i,
			StartByte: i,
			EndByte:   i + 1,
		}
	}
	return tokens
}
