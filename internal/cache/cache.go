// Package cache stores fetch outcomes so a URL referenced from many
// documents is only fetched once per run (memory) or across runs (disk).
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for fetch-result caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a stable cache key from a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return "docdecay:v1:" + hex.EncodeToString(sum[:])
}
