package patternset

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"PatternScan/internal/analysis"
	"PatternScan/internal/metrics"
	"PatternScan/internal/storage"
)

// ErrSetNotFound is returned when no set has the requested name.
var ErrSetNotFound = errors.New("pattern set not found")

// ReloadStats summarizes one Reload.
type ReloadStats struct {
	Generation uint64 `json:"generation"`
	Built      int    `json:"built"`
	Reused     int    `json:"reused"`
	Failed     int    `json:"failed"`
	Removed    int    `json:"removed"`
}

// Manager owns the sets built from a definitions directory.
//
// Concurrency model:
//   - mu (RWMutex): read-locked to look sets up, write-locked only to swap
//     in the map produced by a reload.
//   - reloadMu (Mutex): serializes reloads so builds never race each other.
//   - Sets are immutable; a reader holding one keeps using it after a
//     reload replaces it.
type Manager struct {
	dir      string
	registry *analysis.Registry
	opts     []BuildOption
	metrics  *metrics.Metrics
	logger   *slog.Logger

	reloadMu sync.Mutex

	mu         sync.RWMutex
	sets       map[string]*Set
	generation uint64
}

// NewManager creates a Manager for dir and performs the initial load.
// Definitions that fail to load or build are logged and skipped.
func NewManager(dir string, registry *analysis.Registry, m *metrics.Metrics, logger *slog.Logger, opts ...BuildOption) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = analysis.NewRegistry()
	}
	mgr := &Manager{
		dir:      dir,
		registry: registry,
		opts:     opts,
		metrics:  m,
		logger:   logger,
		sets:     make(map[string]*Set),
	}
	if _, err := mgr.Reload(); err != nil {
		return nil, fmt.Errorf("load pattern sets: %w", err)
	}
	return mgr, nil
}

// Reload rebuilds every set whose sources changed since the last load and
// swaps the result in as a new generation. A set that fails to rebuild
// keeps serving its previous version, as does a name claimed by more than
// one definition file.
func (m *Manager) Reload() (ReloadStats, error) {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	files, err := storage.ListFiles(m.dir, DefinitionExt)
	if err != nil {
		return ReloadStats{}, err
	}

	m.mu.RLock()
	prev := m.sets
	m.mu.RUnlock()

	var stats ReloadStats
	next := make(map[string]*Set, len(files))
	defs := make([]*Definition, 0, len(files))
	claims := make(map[string][]string, len(files))
	for _, name := range files {
		path := filepath.Join(m.dir, name)
		def, err := LoadDefinition(path)
		if err != nil {
			stats.Failed++
			m.logger.Error("failed to load pattern set", "path", path, "error", err)
			m.keepPrevious(prev, next, path)
			continue
		}
		claims[def.Name] = append(claims[def.Name], path)
		defs = append(defs, def)
	}

	for _, def := range defs {
		if paths := claims[def.Name]; len(paths) > 1 {
			// No file wins a contested name; the last good build keeps serving.
			stats.Failed++
			m.logger.Error("duplicate pattern set name",
				"name", def.Name, "path", def.path, "error", ErrDuplicateName, "claimed_by", paths)
			if old, ok := prev[def.Name]; ok {
				next[def.Name] = old
			}
			continue
		}

		if old, ok := prev[def.Name]; ok {
			if sum, err := def.Checksum(); err == nil && sum == old.checksum && old.def.path == def.path {
				next[def.Name] = old
				stats.Reused++
				continue
			}
		}

		start := time.Now()
		set, err := Build(def, m.registry, m.opts...)
		if err != nil {
			m.metrics.ObserveBuild(def.Name, 0, 0, time.Since(start), err)
			stats.Failed++
			m.logger.Error("failed to build pattern set", "name", def.Name, "error", err)
			if old, ok := prev[def.Name]; ok {
				next[def.Name] = old
			}
			continue
		}
		info := set.Info()
		m.metrics.ObserveBuild(def.Name, info.States, info.Patterns, time.Since(start), nil)
		m.logger.Info("pattern set built",
			"name", info.Name,
			"patterns", info.Patterns,
			"skipped", info.Skipped,
			"states", info.States,
			"analyzer", info.Analyzer,
			"duration", time.Since(start),
		)
		next[def.Name] = set
		stats.Built++
	}

	for name := range prev {
		if _, ok := next[name]; !ok {
			stats.Removed++
			m.metrics.Forget(name)
			m.logger.Info("pattern set removed", "name", name)
		}
	}

	m.mu.Lock()
	m.sets = next
	m.generation++
	stats.Generation = m.generation
	m.mu.Unlock()

	m.metrics.SetGeneration(stats.Generation)
	m.logger.Info("pattern sets loaded",
		"generation", stats.Generation,
		"sets", len(next),
		"built", stats.Built,
		"reused", stats.Reused,
		"failed", stats.Failed,
		"removed", stats.Removed,
	)
	return stats, nil
}

// keepPrevious carries over the set previously loaded from path, if any.
func (m *Manager) keepPrevious(prev, next map[string]*Set, path string) {
	for name, s := range prev {
		if s.def.path == path {
			if _, taken := next[name]; !taken {
				next[name] = s
			}
			return
		}
	}
}

// Get returns the named set.
func (m *Manager) Get(name string) (*Set, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSetNotFound, name)
	}
	return s, nil
}

// List returns all sets sorted by name.
func (m *Manager) List() []*Set {
	m.mu.RLock()
	sets := make([]*Set, 0, len(m.sets))
	for _, s := range m.sets {
		sets = append(sets, s)
	}
	m.mu.RUnlock()

	sort.Slice(sets, func(i, j int) bool { return sets[i].Name() < sets[j].Name() })
	return sets
}

// Generation returns the number of completed reloads.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Scan scans text with the named set and records metrics.
func (m *Manager) Scan(name, text string) ([]Hit, error) {
	s, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	hits, err := s.Scan(text)
	if err != nil {
		return nil, err
	}
	m.metrics.ObserveScan(name, len(hits))
	return hits, nil
}

// Contains reports whether word is a pattern of the named set.
func (m *Manager) Contains(name, word string) (bool, error) {
	s, err := m.Get(name)
	if err != nil {
		return false, err
	}
	return s.Contains(word), nil
}
