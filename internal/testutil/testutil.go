// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// ClassicPatterns is the textbook Aho-Corasick pattern set.
var ClassicPatterns = []string{"he", "she", "his", "hers"}

// OverlapPatterns share suffixes at several depths.
var OverlapPatterns = []string{"d", "dd", "cd", "bcd"}

// WithTempDir creates a temporary directory, calls fn with its path,
// and cleans up afterwards.
func WithTempDir(t *testing.T, fn func(dir string)) {
	t.Helper()
	dir := t.TempDir()
	fn(dir)
}

// WriteFile writes content to dir/name, creating parent directories,
// and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// ClassicSetTOML is a definition of ClassicPatterns over the rune analyzer.
const ClassicSetTOML = `name = "classic"
description = "textbook patterns"
analyzer = "rune"
patterns = ["he", "she", "his", "hers"]
`

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
