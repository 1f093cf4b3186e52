package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form kind:hex(sha256(parts)). The kind
// prefix (layout, impact, artifact) keeps the entry namespaces separate even
// when two kinds hash identical inputs, and the full 256-bit digest rules
// out collisions between graphs.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 digest of data. Graph documents are hashed
// with it so layouts and artifacts derived from the same document share a
// key prefix input.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
