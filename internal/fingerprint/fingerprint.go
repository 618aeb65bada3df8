// Package fingerprint computes stable content digests for ingested files.
// A fingerprint identifies a source file by its exact byte content, so two
// files with identical bytes share one fingerprint regardless of name.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Bytes returns the hex-encoded SHA-256 digest of b.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// File returns the hex-encoded SHA-256 digest of the file at path,
// streaming the content in 8 KiB blocks.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, 8192)); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChunkID derives the stable id for chunk number index of the document
// identified by hash. Ids are deterministic so that re-ingesting identical
// content produces identical ids.
func ChunkID(hash string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", hash, index)
}
