package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.toml", "a.toml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.toml"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := ListFiles(dir, ".toml")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 || files[0] != "a.toml" || files[1] != "b.toml" {
		t.Errorf("ListFiles = %v, want [a.toml b.toml]", files)
	}

	all, err := ListFiles(dir, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("ListFiles(all) = %v, want 3 files", all)
	}
}

func TestListFiles_NotExists(t *testing.T) {
	files, err := ListFiles("/nonexistent/dir", ".toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if files != nil {
		t.Errorf("expected nil, got %v", files)
	}
}

func TestReadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.txt")
	content := "# comment\nhe\n\n  she  \nhis\n#hers\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"he", "she", "his"}
	if len(lines) != len(want) {
		t.Fatalf("ReadLines = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	if _, err := ReadLines(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestResolvePath(t *testing.T) {
	if got := ResolvePath("/etc/sets", "words.txt"); got != "/etc/sets/words.txt" {
		t.Errorf("relative: got %q", got)
	}
	if got := ResolvePath("/etc/sets", "/abs/words.txt"); got != "/abs/words.txt" {
		t.Errorf("absolute: got %q", got)
	}
	if got := ResolvePath("", "words.txt"); got != "words.txt" {
		t.Errorf("empty base: got %q", got)
	}
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(path) || FileExists(dir) || FileExists(path+".missing") {
		t.Error("FileExists misreports")
	}
	if !DirExists(dir) || DirExists(path) {
		t.Error("DirExists misreports")
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	finalPath := filepath.Join(dir, "set.toml")

	if err := AtomicWriteFile(finalPath, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWriteFile(finalPath, []byte("second")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(finalPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want second", got)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want 1", len(entries))
	}
}

func TestAtomicWriteFile_MissingDir(t *testing.T) {
	err := AtomicWriteFile(filepath.Join(t.TempDir(), "nope", "f"), []byte("x"))
	if err == nil {
		t.Error("expected error for missing parent directory")
	}
}

func TestChecksum(t *testing.T) {
	c := ComputeChecksum([]byte("hello"))
	if len(c) != len(ChecksumPrefix)+64 {
		t.Errorf("checksum length = %d", len(c))
	}

	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	os.WriteFile(a, []byte("he\nshe\n"), 0644)
	os.WriteFile(b, []byte("his\n"), 0644)

	c1, err := ComputeFilesChecksum(a, b)
	if err != nil {
		t.Fatal(err)
	}
	c2, _ := ComputeFilesChecksum(a, b)
	if c1 != c2 {
		t.Error("checksum not deterministic")
	}

	os.WriteFile(b, []byte("hers\n"), 0644)
	c3, _ := ComputeFilesChecksum(a, b)
	if c1 == c3 {
		t.Error("checksum did not change with content")
	}

	if _, err := ComputeFilesChecksum(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatal(err)
	}
	if !DirExists(dir) {
		t.Error("directory not created")
	}
}
