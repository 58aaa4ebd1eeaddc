package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}, wantName: "openai"},
		{name: "perplexity", config: Config{Provider: "perplexity", APIKey: "k"}, wantName: "perplexity"},
		{name: "anthropic", config: Config{Provider: "anthropic", APIKey: "k"}, wantName: "anthropic"},
		{name: "claude alias", config: Config{Provider: "claude", APIKey: "k"}, wantName: "anthropic"},
		{name: "ollama", config: Config{Provider: "ollama"}, wantName: "ollama"},
		{name: "case folded", config: Config{Provider: "OpenAI", APIKey: "k"}, wantName: "openai"},
		{name: "disabled", config: Config{Provider: ""}, wantNil: true},
		{name: "unknown", config: Config{Provider: "bard"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProvider(tt.config)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider: %v", err)
			}
			if tt.wantNil {
				if p != nil {
					t.Fatalf("expected nil provider, got %s", p.Name())
				}
				return
			}
			if p.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", p.Name(), tt.wantName)
			}
		})
	}
}

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Name() string                         { return "counting" }
func (p *countingProvider) IsAvailable(ctx context.Context) bool { return true }
func (p *countingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &CompletionResponse{Text: "answer", Model: req.Model}, nil
}

type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{entries: make(map[string][]byte)} }

func (c *mapCache) Get(key string) ([]byte, bool) {
	v, ok := c.entries[key]
	return v, ok
}
func (c *mapCache) Set(key string, value []byte, ttl time.Duration) error {
	c.entries[key] = value
	return nil
}
func (c *mapCache) Delete(key string) error {
	delete(c.entries, key)
	return nil
}
func (c *mapCache) Clear() error {
	c.entries = make(map[string][]byte)
	return nil
}

func TestWithCache(t *testing.T) {
	inner := &countingProvider{}
	cached := WithCache(inner, newMapCache(), time.Minute)

	req := CompletionRequest{System: "s", Prompt: "p", Model: "m"}
	for i := 0; i < 3; i++ {
		resp, err := cached.Complete(context.Background(), req)
		if err != nil {
			t.Fatalf("Complete: %v", err)
		}
		if resp.Text != "answer" {
			t.Errorf("Text = %q", resp.Text)
		}
	}
	if inner.calls != 1 {
		t.Errorf("provider called %d times, want 1", inner.calls)
	}

	// A different prompt misses.
	if _, err := cached.Complete(context.Background(), CompletionRequest{Prompt: "other"}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("provider called %d times after distinct prompt, want 2", inner.calls)
	}
}

func TestWithCache_NeverCachesErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("boom")}
	cached := WithCache(inner, newMapCache(), time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cached.Complete(context.Background(), CompletionRequest{Prompt: "p"}); err == nil {
			t.Fatal("expected error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("provider called %d times, want 2 (errors must not be cached)", inner.calls)
	}
}

func TestWithCache_NilCachePassthrough(t *testing.T) {
	inner := &countingProvider{}
	if got := WithCache(inner, nil, time.Minute); got != Provider(inner) {
		t.Error("nil cache should return the provider unchanged")
	}
}

func TestWithRateLimit_NilLimiterPassthrough(t *testing.T) {
	inner := &countingProvider{}
	if got := WithRateLimit(inner, nil); got != Provider(inner) {
		t.Error("nil limiter should return the provider unchanged")
	}
}
