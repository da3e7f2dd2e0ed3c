// Package checksum computes the integrity digests recorded in registry index
// entries.
//
// Digests are SHA-256 rendered as 64 lower-case hex characters, the format
// Cargo expects in the "cksum" field of an index record.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
)

// Size is the length of a rendered digest.
const Size = sha256.Size * 2

// Sum computes a SHA-256 hash of data.
// Returns the full 64-character hex string.
func Sum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// File reads the whole file at path into memory and returns its digest.
func File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return Sum(data), nil
}

// Valid reports whether s looks like a digest produced by Sum.
func Valid(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
