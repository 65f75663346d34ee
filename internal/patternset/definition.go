// Package patternset builds named, sealed pattern automata from TOML
// definitions and reports their occurrences in text.
package patternset

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"PatternScan/internal/storage"
)

// DefinitionExt is the file extension of pattern-set definitions.
const DefinitionExt = ".toml"

var (
	ErrInvalidName   = errors.New("invalid pattern set name")
	ErrDuplicateName = errors.New("duplicate pattern set name")
)

// Definition describes one pattern set as stored on disk.
type Definition struct {
	Name         string   `toml:"name"`
	Description  string   `toml:"description,omitempty"`
	Analyzer     string   `toml:"analyzer,omitempty"`
	Patterns     []string `toml:"patterns"`
	PatternFiles []string `toml:"pattern_files,omitempty"`

	// path is the file the definition was loaded from, empty for
	// definitions built in memory.
	path string
}

// Path returns the file the definition was loaded from.
func (d *Definition) Path() string { return d.path }

// Validate checks the set name.
func (d *Definition) Validate() error {
	if d.Name == "" || strings.ContainsAny(d.Name, `/\`) || strings.TrimSpace(d.Name) != d.Name {
		return fmt.Errorf("%w: %q", ErrInvalidName, d.Name)
	}
	return nil
}

// Files returns the definition file followed by its pattern files, all
// resolved. It is empty for in-memory definitions.
func (d *Definition) Files() []string {
	if d.path == "" {
		return nil
	}
	files := []string{d.path}
	base := filepath.Dir(d.path)
	for _, f := range d.PatternFiles {
		files = append(files, storage.ResolvePath(base, f))
	}
	return files
}

// AllPatterns returns the inline patterns followed by those read from
// PatternFiles, in order, duplicates included.
func (d *Definition) AllPatterns() ([]string, error) {
	patterns := append([]string(nil), d.Patterns...)
	base := ""
	if d.path != "" {
		base = filepath.Dir(d.path)
	}
	for _, f := range d.PatternFiles {
		lines, err := storage.ReadLines(storage.ResolvePath(base, f))
		if err != nil {
			return nil, fmt.Errorf("set %q: %w", d.Name, err)
		}
		patterns = append(patterns, lines...)
	}
	return patterns, nil
}

// Checksum fingerprints the definition's sources so unchanged sets can be
// reused across reloads.
func (d *Definition) Checksum() (storage.Checksum, error) {
	if files := d.Files(); len(files) > 0 {
		return storage.ComputeFilesChecksum(files...)
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(d); err != nil {
		return "", fmt.Errorf("encode definition: %w", err)
	}
	return storage.ComputeChecksum(buf.Bytes()), nil
}

// LoadDefinition decodes the definition file at path. A missing name
// defaults to the file name without its extension.
func LoadDefinition(path string) (*Definition, error) {
	var def Definition
	md, err := toml.DecodeFile(path, &def)
	if err != nil {
		return nil, fmt.Errorf("decode definition %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("definition %s: unknown keys: %v", path, undecoded)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), DefinitionExt)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("definition %s: %w", path, err)
	}
	def.path = path
	return &def, nil
}

// LoadDefinitions loads every definition in dir, sorted by file name.
// It fails on the first invalid file, and with ErrDuplicateName when two
// files claim one set name, whichever sorts first.
func LoadDefinitions(dir string) ([]*Definition, error) {
	files, err := storage.ListFiles(dir, DefinitionExt)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]string, len(files))
	defs := make([]*Definition, 0, len(files))
	for _, name := range files {
		def, err := LoadDefinition(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateName, def.Name, prev, def.path)
		}
		seen[def.Name] = def.path
		defs = append(defs, def)
	}
	return defs, nil
}

// SaveDefinition atomically writes def to path as TOML.
func SaveDefinition(path string, def *Definition) error {
	if err := def.Validate(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(def); err != nil {
		return fmt.Errorf("encode definition: %w", err)
	}
	if err := storage.AtomicWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	def.path = path
	return nil
}

// AddPatterns appends the patterns not already listed inline to the
// definition at path, creating it if needed, and rewrites it atomically.
// It returns how many patterns were added.
func AddPatterns(path string, patterns ...string) (int, error) {
	var def *Definition
	if storage.FileExists(path) {
		var err error
		if def, err = LoadDefinition(path); err != nil {
			return 0, err
		}
	} else {
		def = &Definition{Name: strings.TrimSuffix(filepath.Base(path), DefinitionExt)}
	}

	seen := make(map[string]bool, len(def.Patterns))
	for _, p := range def.Patterns {
		seen[p] = true
	}
	added := 0
	for _, p := range patterns {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		def.Patterns = append(def.Patterns, p)
		added++
	}
	if added == 0 {
		return 0, nil
	}
	return added, SaveDefinition(path, def)
}
