package analysis

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// StandardAnalyzer emits case-folded words: maximal runs of letters, digits
// and underscores. Pattern "New York" matches "new-york" and "NEW  YORK";
// the hit spans from the first word's first byte to the last word's last.
type StandardAnalyzer struct{}

// NewStandardAnalyzer creates a new StandardAnalyzer.
func NewStandardAnalyzer() *StandardAnalyzer {
	return &StandardAnalyzer{}
}

// Analyze returns one folded token per word. Term may differ in length from
// the bytes it came from (ß folds to ss), so offsets always index text.
func (a *StandardAnalyzer) Analyze(text string) []Token {
	var tokens []Token
	// Casers carry state and must not be shared between goroutines.
	fold := cases.Fold()
	pos := 0
	i := 0

	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isWordRune(r) {
			i += size
			continue
		}

		start := i
		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isWordRune(r) {
				break
			}
			i += size
		}

		term := fold.String(text[start:i])
		if term != "" {
			tokens = append(tokens, Token{
				Term:      term,
				Position:  pos,
				StartByte: start,
				EndByte:   i,
			})
			pos++
		}
	}

	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
