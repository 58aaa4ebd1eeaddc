package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/trustlens/trustlens/internal/model"
)

// Cache defines the interface for the completion cache.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CompletionKey derives a cache key from the full completion request, so two
// prompts differing only in system instruction or model never collide.
func CompletionKey(provider, model, system, prompt string) string {
	h := sha256.New()
	h.Write([]byte(provider))
	h.Write([]byte{0})
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(system))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	return "trustlens:v1:" + hex.EncodeToString(h.Sum(nil))
}

// New builds the configured cache: layered memory+disk when a directory is
// set, memory-only otherwise, nil when disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir != "" {
		return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
	}
	return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
}
