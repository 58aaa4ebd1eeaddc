package cache

import (
	"testing"
	"time"

	"github.com/trustlens/trustlens/internal/model"
)

func TestCompletionKey(t *testing.T) {
	base := CompletionKey("perplexity", "sonar-pro", "system", "prompt")

	// Moving a boundary between fields must change the key.
	variants := []string{
		CompletionKey("perplexity", "sonar-pros", "ystem", "prompt"),
		CompletionKey("perplexity", "sonar-pro", "systemp", "rompt"),
		CompletionKey("openai", "sonar-pro", "system", "prompt"),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base key", i)
		}
	}

	if again := CompletionKey("perplexity", "sonar-pro", "system", "prompt"); again != base {
		t.Error("key is not deterministic")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("Get = %q, %v", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("fresh", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get("fresh"); !found {
		t.Error("expected hit for fresh entry")
	}

	if err := c.Set("stale", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := c.Get("stale"); found {
		t.Error("expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	// Write through both tiers, then clear memory only.
	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.memory.Clear(); err != nil {
		t.Fatalf("clear memory tier: %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Fatalf("expected disk hit, got %q, %v", val, found)
	}
	if _, found := c.memory.Get("k"); !found {
		t.Error("disk hit was not promoted into memory")
	}
}

func TestNew(t *testing.T) {
	if c := New(model.CacheConfig{Enabled: false}); c != nil {
		t.Error("disabled cache should be nil")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}).(*MemoryCache); !ok {
		t.Error("expected memory cache without a directory")
	}
	if _, ok := New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Minute}).(*LayeredCache); !ok {
		t.Error("expected layered cache with a directory")
	}
}
