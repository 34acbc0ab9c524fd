package cmorval

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Checksum computes payload digests for validated files. Submissions
// are usually accompanied by a digest manifest, so the pipeline can
// optionally stamp each Result with the file's digest for downstream
// reconciliation.
type Checksum interface {
	// Name identifies the algorithm, e.g. "md5".
	Name() string

	// NewHasher returns a fresh hasher for one file.
	NewHasher() HashWriter
}

// HashWriter accumulates payload bytes and produces a hex digest.
type HashWriter interface {
	io.Writer
	Sum() string
}

// NewMD5Checksum creates an MD5 checksum component. MD5 is what the
// data-node transfer tooling publishes alongside submissions.
func NewMD5Checksum() Checksum {
	return &hashChecksum{name: "md5", newHash: md5.New}
}

// NewSHA256Checksum creates a SHA-256 checksum component.
func NewSHA256Checksum() Checksum {
	return &hashChecksum{name: "sha256", newHash: sha256.New}
}

type hashChecksum struct {
	name    string
	newHash func() hash.Hash
}

func (c *hashChecksum) Name() string { return c.name }

func (c *hashChecksum) NewHasher() HashWriter {
	return &hashWriter{h: c.newHash()}
}

type hashWriter struct {
	h hash.Hash
}

func (hw *hashWriter) Write(p []byte) (int, error) {
	return hw.h.Write(p)
}

func (hw *hashWriter) Sum() string {
	return hex.EncodeToString(hw.h.Sum(nil))
}

// HashFile streams the file at path through c and returns its digest
// prefixed with the algorithm name ("md5:...").
func HashFile(c Checksum, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	hw := c.NewHasher()
	if _, err := io.Copy(hw, f); err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	return c.Name() + ":" + hw.Sum(), nil
}
