package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ComputeFingerprint computes a deterministic fingerprint of a source
// identity and a request value using SHA256 over its JSON encoding.
// Struct fields encode in declaration order and map keys sorted, so equal
// requests always hash equally. Returns hex-encoded hash (64 characters).
func ComputeFingerprint(sourceID string, request any) (string, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("encode fingerprint request: %w", err)
	}

	data := fmt.Sprintf("%s|%s", sourceID, payload)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:]), nil
}
