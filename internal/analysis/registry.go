package analysis

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// DefaultAnalyzer is used by pattern sets that do not name one.
const DefaultAnalyzer = "rune"

// Registry maps the analyzer names used in set definitions and the
// DefaultAnalyzer config key to shared analyzer instances.
type Registry struct {
	analyzers map[string]Analyzer
	mu        sync.RWMutex
}

// NewRegistry creates a Registry with the built-in analyzers registered.
func NewRegistry() *Registry {
	r := &Registry{
		analyzers: make(map[string]Analyzer),
	}
	r.analyzers["rune"] = NewRuneAnalyzer()
	r.analyzers["byte"] = NewByteAnalyzer()
	r.analyzers["standard"] = NewStandardAnalyzer()
	r.analyzers["whitespace"] = NewWhitespaceAnalyzer()
	r.analyzers["keyword"] = NewKeywordAnalyzer()
	return r
}

// Get returns the analyzer registered under the given name.
// The empty name resolves to DefaultAnalyzer.
func (r *Registry) Get(name string) (Analyzer, error) {
	if name == "" {
		name = DefaultAnalyzer
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyzers[name]
	if !ok {
		return nil, fmt.Errorf("unknown analyzer: %q", name)
	}
	return a, nil
}

// Register adds an analyzer under a name not yet in use.
func (r *Registry) Register(name string, a Analyzer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.analyzers[name]; exists {
		return fmt.Errorf("analyzer already registered: %q", name)
	}
	r.analyzers[name] = a
	return nil
}

// Names returns the names of all registered analyzers, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.analyzers))
}
