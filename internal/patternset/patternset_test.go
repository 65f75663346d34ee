package patternset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"PatternScan/internal/analysis"
	"PatternScan/internal/automaton"
	"PatternScan/internal/testutil"
)

func TestBuild_RuneScan(t *testing.T) {
	def := &Definition{Name: "classic", Patterns: testutil.ClassicPatterns}
	s, err := Build(def, analysis.NewRegistry())
	require.NoError(t, err)

	hits, err := s.Scan("ushers")
	require.NoError(t, err)
	require.Equal(t, []Hit{
		{Pattern: "she", Start: 1, End: 4, Position: 3},
		{Pattern: "he", Start: 2, End: 4, Position: 3},
		{Pattern: "hers", Start: 2, End: 6, Position: 5},
	}, hits)

	info := s.Info()
	require.Equal(t, "classic", info.Name)
	require.Equal(t, "rune", info.Analyzer)
	require.Equal(t, "chain-walk", info.LinkMode)
	require.Equal(t, 4, info.Patterns)
	require.Equal(t, 0, info.Skipped)
	require.NotEmpty(t, info.Checksum)
}

func TestBuild_MultibyteOffsets(t *testing.T) {
	s, err := Build(&Definition{Name: "jp", Patterns: []string{"日本", "本語"}}, analysis.NewRegistry())
	require.NoError(t, err)

	hits, err := s.Scan("x日本語")
	require.NoError(t, err)
	require.Equal(t, []Hit{
		{Pattern: "日本", Start: 1, End: 7, Position: 2},
		{Pattern: "本語", Start: 4, End: 10, Position: 3},
	}, hits)
}

func TestBuild_StandardAnalyzerWords(t *testing.T) {
	def := &Definition{
		Name:     "phrases",
		Analyzer: "standard",
		Patterns: []string{"New York", "york city", "new york city", "  ", "NEW YORK"},
	}
	s, err := Build(def, analysis.NewRegistry())
	require.NoError(t, err)

	info := s.Info()
	require.Equal(t, 3, info.Patterns, "NEW YORK folds onto New York")
	require.Equal(t, 1, info.Skipped, "blank pattern has no tokens")

	text := "I love New-York City!"
	hits, err := s.Scan(text)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	require.Equal(t, "New York", hits[0].Pattern)
	require.Equal(t, "New-York", text[hits[0].Start:hits[0].End])
	require.Equal(t, "new york city", hits[1].Pattern)
	require.Equal(t, "New-York City", text[hits[1].Start:hits[1].End])
	require.Equal(t, "york city", hits[2].Pattern)

	require.True(t, s.Contains("new  YORK"))
	require.False(t, s.Contains("york"))
	require.False(t, s.Contains(""))
}

func TestBuild_SingleHopMode(t *testing.T) {
	def := &Definition{Name: "nested", Patterns: []string{"abcx", "bcy", "cx"}}

	walk, err := Build(def, analysis.NewRegistry())
	require.NoError(t, err)
	hits, err := walk.Scan("abcx")
	require.NoError(t, err)
	require.Len(t, hits, 2)

	hop, err := Build(def, analysis.NewRegistry(), WithLinkMode(automaton.SingleHop))
	require.NoError(t, err)
	hits, err = hop.Scan("abcx")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "single-hop", hop.Info().LinkMode)
}

func TestBuild_Errors(t *testing.T) {
	reg := analysis.NewRegistry()

	_, err := Build(&Definition{Name: ""}, reg)
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = Build(&Definition{Name: "x", Analyzer: "klingon"}, reg)
	require.ErrorContains(t, err, "unknown analyzer")

	_, err = Build(&Definition{Name: "x", PatternFiles: []string{"/nonexistent/words.txt"}}, reg)
	require.Error(t, err)
}

func TestBuild_DefaultAnalyzerOption(t *testing.T) {
	s, err := Build(&Definition{Name: "w", Patterns: []string{"Hello"}}, analysis.NewRegistry(),
		WithDefaultAnalyzer("standard"))
	require.NoError(t, err)
	require.Equal(t, "standard", s.Info().Analyzer)
	require.True(t, s.Contains("HELLO"))
}

func TestSet_HitsRestartable(t *testing.T) {
	s, err := Build(&Definition{Name: "a", Patterns: []string{"a", "aa"}}, analysis.NewRegistry())
	require.NoError(t, err)

	seq, err := s.Hits("aaa")
	require.NoError(t, err)
	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	require.Equal(t, 5, count())
	require.Equal(t, 5, count())

	hits, err := s.Scan("zzz")
	require.NoError(t, err)
	require.NotNil(t, hits)
	require.Empty(t, hits)
}

func TestLoadDefinition(t *testing.T) {
	testutil.WithTempDir(t, func(dir string) {
		testutil.WriteFile(t, dir, "lists/extra.txt", "# extra\nhim\nhers\n")
		path := testutil.WriteFile(t, dir, "people.toml", `description = "pronouns"
patterns = ["he", "she"]
pattern_files = ["lists/extra.txt"]
`)

		def, err := LoadDefinition(path)
		require.NoError(t, err)
		require.Equal(t, "people", def.Name, "name defaults to file name")
		require.Equal(t, path, def.Path())
		require.Equal(t, []string{path, filepath.Join(dir, "lists/extra.txt")}, def.Files())

		patterns, err := def.AllPatterns()
		require.NoError(t, err)
		require.Equal(t, []string{"he", "she", "him", "hers"}, patterns)
	})
}

func TestLoadDefinition_Invalid(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDefinition(testutil.WriteFile(t, dir, "bad.toml", "patterns = [\n"))
	require.Error(t, err)

	_, err = LoadDefinition(testutil.WriteFile(t, dir, "unknown.toml", "patterns = []\ncolour = \"red\"\n"))
	require.ErrorContains(t, err, "unknown keys")

	_, err = LoadDefinition(testutil.WriteFile(t, dir, "slash.toml", "name = \"a/b\"\n"))
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "b.toml", "patterns = [\"x\"]\n")
	testutil.WriteFile(t, dir, "a.toml", testutil.ClassicSetTOML)
	testutil.WriteFile(t, dir, "readme.md", "ignored")

	defs, err := LoadDefinitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	require.Equal(t, "classic", defs[0].Name)
	require.Equal(t, "b", defs[1].Name)

	testutil.WriteFile(t, dir, "c.toml", "name = \"b\"\n")
	_, err = LoadDefinitions(dir)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestSaveAndAddPatterns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fresh.toml")

	added, err := AddPatterns(path, "he", "she", "he", "")
	require.NoError(t, err)
	require.Equal(t, 2, added)

	added, err = AddPatterns(path, "she", "hers")
	require.NoError(t, err)
	require.Equal(t, 1, added)

	added, err = AddPatterns(path, "hers")
	require.NoError(t, err)
	require.Equal(t, 0, added)

	def, err := LoadDefinition(path)
	require.NoError(t, err)
	require.Equal(t, "fresh", def.Name)
	require.Equal(t, []string{"he", "she", "hers"}, def.Patterns)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDefinition_ChecksumInMemory(t *testing.T) {
	a := &Definition{Name: "x", Patterns: []string{"he"}}
	b := &Definition{Name: "x", Patterns: []string{"she"}}

	ca, err := a.Checksum()
	require.NoError(t, err)
	cb, err := b.Checksum()
	require.NoError(t, err)
	require.NotEqual(t, ca, cb)
}
