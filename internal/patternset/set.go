package patternset

import (
	"crypto/rand"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/yawning/bloom"

	"PatternScan/internal/analysis"
	"PatternScan/internal/automaton"
	"PatternScan/internal/storage"
)

// Hit is one pattern occurrence in scanned text.
type Hit struct {
	// Pattern is the pattern as written in the definition.
	Pattern string `json:"pattern"`
	// Start and End are byte offsets of the occurrence, End exclusive.
	Start int `json:"start"`
	End   int `json:"end"`
	// Position is the index of the occurrence's last token.
	Position int `json:"position"`
}

// Info summarizes a built set.
type Info struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Analyzer    string    `json:"analyzer"`
	LinkMode    string    `json:"link_mode"`
	Patterns    int       `json:"patterns"`
	Skipped     int       `json:"skipped"`
	States      int       `json:"states"`
	Checksum    string    `json:"checksum"`
	Source      string    `json:"source,omitempty"`
	BuiltAt     time.Time `json:"built_at"`
}

// Set is a sealed automaton over one analyzer's token alphabet.
// A Set is immutable and safe for concurrent use.
type Set struct {
	def      *Definition
	analyzer analysis.Analyzer
	aname    string
	trie     *automaton.Trie[string]
	// names maps terminal states to the first pattern that spelled them.
	// Patterns that analyze to the same tokens share a state.
	names map[automaton.State]string
	// filter holds every inserted token sequence and rejects most
	// Contains misses before the trie is walked.
	filter   *bloom.Filter
	skipped  int
	checksum storage.Checksum
	builtAt  time.Time
}

type buildOptions struct {
	mode            automaton.LinkMode
	defaultAnalyzer string
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

// WithLinkMode selects the failure-link rule for built automata.
func WithLinkMode(m automaton.LinkMode) BuildOption {
	return func(o *buildOptions) { o.mode = m }
}

// WithDefaultAnalyzer names the analyzer used when a definition has none.
func WithDefaultAnalyzer(name string) BuildOption {
	return func(o *buildOptions) { o.defaultAnalyzer = name }
}

// Build tokenizes every pattern of def with its analyzer, inserts the token
// sequences and finalizes the automaton. Patterns that produce no tokens are
// skipped and counted.
func Build(def *Definition, reg *analysis.Registry, opts ...BuildOption) (*Set, error) {
	o := buildOptions{mode: automaton.ChainWalk, defaultAnalyzer: analysis.DefaultAnalyzer}
	for _, opt := range opts {
		opt(&o)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}

	aname := def.Analyzer
	if aname == "" {
		aname = o.defaultAnalyzer
	}
	a, err := reg.Get(aname)
	if err != nil {
		return nil, fmt.Errorf("set %q: %w", def.Name, err)
	}

	checksum, err := def.Checksum()
	if err != nil {
		return nil, fmt.Errorf("set %q: %w", def.Name, err)
	}
	patterns, err := def.AllPatterns()
	if err != nil {
		return nil, err
	}

	filter, err := newFilter(len(patterns))
	if err != nil {
		return nil, fmt.Errorf("set %q: %w", def.Name, err)
	}
	s := &Set{
		def:      def,
		analyzer: a,
		aname:    aname,
		trie:     automaton.New[string](automaton.WithLinkMode(o.mode)),
		names:    make(map[automaton.State]string, len(patterns)),
		filter:   filter,
		checksum: checksum,
	}
	for _, p := range patterns {
		terms := analysis.Terms(a.Analyze(p))
		if len(terms) == 0 {
			s.skipped++
			continue
		}
		if err := s.trie.Insert(terms); err != nil {
			return nil, fmt.Errorf("set %q: insert %q: %w", def.Name, p, err)
		}
		s.filter.TestAndSet(filterKey(terms))
		st, _ := s.trie.Walk(terms)
		if _, ok := s.names[st]; !ok {
			s.names[st] = p
		}
	}
	if err := s.trie.Finalize(); err != nil {
		return nil, fmt.Errorf("set %q: %w", def.Name, err)
	}
	s.builtAt = time.Now()
	return s, nil
}

// filterFalsePositiveRate bounds how often Contains falls through to the trie
// for a word that is not a pattern.
const filterFalsePositiveRate = 0.01

func newFilter(n int) (*bloom.Filter, error) {
	n = max(n, 64)
	return bloom.New(rand.Reader, bloom.DeriveSize(n, filterFalsePositiveRate), filterFalsePositiveRate)
}

func filterKey(terms []string) []byte {
	return []byte(strings.Join(terms, "\x00"))
}

// Name returns the set name.
func (s *Set) Name() string { return s.def.Name }

// Checksum returns the fingerprint of the sources the set was built from.
func (s *Set) Checksum() storage.Checksum { return s.checksum }

// Automaton exposes the underlying finalized automaton.
func (s *Set) Automaton() automaton.Automaton[string] { return s.trie }

// Info returns a summary of the set.
func (s *Set) Info() Info {
	return Info{
		Name:        s.def.Name,
		Description: s.def.Description,
		Analyzer:    s.aname,
		LinkMode:    s.trie.Mode().String(),
		Patterns:    len(s.names),
		Skipped:     s.skipped,
		States:      s.trie.Len(),
		Checksum:    string(s.checksum),
		Source:      s.def.path,
		BuiltAt:     s.builtAt,
	}
}

// Contains reports whether word, once analyzed, is exactly one of the patterns.
func (s *Set) Contains(word string) bool {
	terms := analysis.Terms(s.analyzer.Analyze(word))
	if len(terms) == 0 || !s.filter.Test(filterKey(terms)) {
		return false
	}
	return s.trie.Contains(terms)
}

// Hits returns a lazy, restartable sequence of the occurrences in text,
// in nondecreasing order of their end.
func (s *Set) Hits(text string) (iter.Seq[Hit], error) {
	tokens := s.analyzer.Analyze(text)
	matches, err := s.trie.Scan(analysis.Terms(tokens))
	if err != nil {
		return nil, err
	}
	return func(yield func(Hit) bool) {
		for m := range matches {
			first := m.End - s.trie.Depth(m.State) + 1
			h := Hit{
				Pattern:  s.names[m.State],
				Start:    tokens[first].StartByte,
				End:      tokens[m.End].EndByte,
				Position: m.End,
			}
			if !yield(h) {
				return
			}
		}
	}, nil
}

// Scan collects every occurrence in text.
func (s *Set) Scan(text string) ([]Hit, error) {
	seq, err := s.Hits(text)
	if err != nil {
		return nil, err
	}
	hits := []Hit{}
	for h := range seq {
		hits = append(hits, h)
	}
	return hits, nil
}
