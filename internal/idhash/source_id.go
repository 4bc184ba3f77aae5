package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComputeSourceID computes a deterministic source identity using SHA256.
// Formula: SHA256(kind|part1|part2|...)
// Returns "<kind>:" followed by the first 16 hex characters of the hash.
func ComputeSourceID(kind string, parts ...string) string {
	data := kind + "|" + strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(data))
	return kind + ":" + hex.EncodeToString(hash[:])[:16]
}
