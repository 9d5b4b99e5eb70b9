// Package cache stores spotter responses so re-validating the same passage
// does not repeat model calls.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the storage interface shared by the memory and disk backends.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SpotKey builds a cache key for one missing-person pass. Passage text and
// the known-name list are both part of the hash: either changing upstream
// must invalidate the entry.
func SpotKey(provider, model, passageText string, knownNames []string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(passageText))
	for _, name := range knownNames {
		h.Write([]byte{0})
		h.Write([]byte(name))
	}
	return "peoplex:v1:" + hex.EncodeToString(h.Sum(nil))
}
