// Package analysis turns text into sequences of symbol tokens that a
// pattern automaton can index and scan.
package analysis

// Token represents a single symbol produced by an analyzer.
type Token struct {
	Term      string
	Position  int
	StartByte int
	EndByte   int
}

// Analyzer splits text into a stream of tokens.
// Implementations MUST be stateless so one instance can serve concurrent scans.
type Analyzer interface {
	// Analyze tokenizes the input text and returns tokens with positions.
	Analyze(text string) []Token
}

// Terms returns the Term of every token, in order.
func Terms(tokens []Token) []string {
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Term
	}
	return terms
}
