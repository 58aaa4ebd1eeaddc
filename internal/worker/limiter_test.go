package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "perplexity"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Separate key gets its own bucket.
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(10, 1) // 10 rps, burst 1
	ctx := context.Background()

	if err := limiter.Wait(ctx, "perplexity"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(ctx, "perplexity"); err != nil {
		t.Fatalf("second wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected second wait to be throttled, took %v", elapsed)
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetRate("ollama", 1000, 100)

	// The custom key should not be throttled for a small burst.
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	for i := 0; i < 10; i++ {
		if err := limiter.Wait(ctx, "ollama"); err != nil {
			t.Fatalf("wait %d failed: %v", i, err)
		}
	}
}
