package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChecksumPrefix is the prefix for SHA-256 checksums.
const ChecksumPrefix = "sha256:"

// Checksum represents a hex-encoded SHA-256 hash with the "sha256:" prefix.
type Checksum string

// ComputeChecksum computes SHA-256 over a byte slice.
func ComputeChecksum(data []byte) Checksum {
	sum := sha256.Sum256(data)
	return FormatChecksum(sum[:])
}

// ComputeFilesChecksum streams the named files, in order, into one SHA-256.
// Each file's path is mixed in so renaming a file changes the result.
func ComputeFilesChecksum(paths ...string) (Checksum, error) {
	h := sha256.New()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("compute files checksum %s: %w", p, err)
		}
		_, _ = io.WriteString(h, p+"\x00")
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("compute files checksum %s: %w", p, err)
		}
	}
	return FormatChecksum(h.Sum(nil)), nil
}

// FormatChecksum formats raw hash bytes into a Checksum with the "sha256:" prefix.
func FormatChecksum(sum []byte) Checksum {
	return Checksum(ChecksumPrefix + hex.EncodeToString(sum))
}
