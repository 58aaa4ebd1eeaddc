package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/trustlens/trustlens/internal/cache"
)

// CachedProvider wraps a Provider with a completion cache keyed by the full
// request. Errors are never cached.
type CachedProvider struct {
	inner Provider
	store cache.Cache
	ttl   time.Duration
}

// WithCache wraps p with the given cache. A nil cache returns p unchanged.
func WithCache(p Provider, store cache.Cache, ttl time.Duration) Provider {
	if store == nil {
		return p
	}
	return &CachedProvider{inner: p, store: store, ttl: ttl}
}

func (c *CachedProvider) Name() string {
	return c.inner.Name()
}

func (c *CachedProvider) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

func (c *CachedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := cache.CompletionKey(c.inner.Name(), req.Model, req.System, req.Prompt)

	if data, found := c.store.Get(key); found {
		var resp CompletionResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			return &resp, nil
		}
		// Corrupt entry: drop it and fall through to the provider.
		_ = c.store.Delete(key)
	}

	resp, err := c.inner.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		_ = c.store.Set(key, data, c.ttl)
	}
	return resp, nil
}
