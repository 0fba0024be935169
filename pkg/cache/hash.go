package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// hashKey derives a derived-result key from a prefix and the JSON form of
// parts: <prefix>:<sha256>.
func hashKey(prefix string, parts ...any) string {
	h := sha256.New()
	_ = json.NewEncoder(h).Encode(parts)
	return prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. The pipeline keys compacted layouts
// by the Hash of their encoded input.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
