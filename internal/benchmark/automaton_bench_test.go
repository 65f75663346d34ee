package benchmark

import (
	"math/rand"
	"strings"
	"testing"

	"PatternScan/internal/analysis"
	"PatternScan/internal/automaton"
	"PatternScan/internal/patternset"
)

// randomWords returns n pseudo-random lowercase words of length 3..10.
func randomWords(n int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	words := make([]string, n)
	for i := range words {
		b := make([]byte, 3+rng.Intn(8))
		for j := range b {
			b[j] = 'a' + byte(rng.Intn(26))
		}
		words[i] = string(b)
	}
	return words
}

func buildByteTrie(b *testing.B, patterns []string, mode automaton.LinkMode) *automaton.Trie[byte] {
	b.Helper()
	tr := automaton.New[byte](automaton.WithLinkMode(mode))
	for _, p := range patterns {
		if err := tr.Insert([]byte(p)); err != nil {
			b.Fatal(err)
		}
	}
	if err := tr.Finalize(); err != nil {
		b.Fatal(err)
	}
	return tr
}

func BenchmarkAutomaton_Build_1K(b *testing.B) {
	patterns := randomWords(1000, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buildByteTrie(b, patterns, automaton.ChainWalk)
	}
}

func BenchmarkAutomaton_Build_10K(b *testing.B) {
	patterns := randomWords(10_000, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buildByteTrie(b, patterns, automaton.ChainWalk)
	}
}

func BenchmarkAutomaton_Contains(b *testing.B) {
	patterns := randomWords(10_000, 1)
	tr := buildByteTrie(b, patterns, automaton.ChainWalk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = tr.Contains([]byte(patterns[i%len(patterns)]))
	}
}

func benchmarkScan(b *testing.B, mode automaton.LinkMode) {
	tr := buildByteTrie(b, randomWords(1000, 1), mode)
	text := []byte(strings.Join(randomWords(20_000, 2), " "))
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq, err := tr.Scan(text)
		if err != nil {
			b.Fatal(err)
		}
		for range seq {
		}
	}
}

func BenchmarkAutomaton_Scan_ChainWalk(b *testing.B) { benchmarkScan(b, automaton.ChainWalk) }

func BenchmarkAutomaton_Scan_SingleHop(b *testing.B) { benchmarkScan(b, automaton.SingleHop) }

// Dense overlaps: every text position ends many patterns.
func BenchmarkAutomaton_Scan_DenseMatches(b *testing.B) {
	patterns := make([]string, 64)
	for i := range patterns {
		patterns[i] = strings.Repeat("a", i+1)
	}
	tr := buildByteTrie(b, patterns, automaton.ChainWalk)
	text := []byte(strings.Repeat("a", 4096))
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := tr.ScanAll(text); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPatternSet_Scan_Standard(b *testing.B) {
	words := randomWords(2000, 3)
	phrases := make([]string, 500)
	for i := range phrases {
		phrases[i] = words[i*2] + " " + words[i*2+1]
	}
	set, err := patternset.Build(&patternset.Definition{Name: "bench", Analyzer: "standard", Patterns: phrases},
		analysis.NewRegistry())
	if err != nil {
		b.Fatal(err)
	}
	text := strings.Join(words, " ")
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := set.Scan(text); err != nil {
			b.Fatal(err)
		}
	}
}
