package llm

import (
	"context"

	"github.com/trustlens/trustlens/internal/worker"
)

// RateLimitedProvider throttles outbound calls per provider so concurrent
// claim verifications don't burst past upstream quotas.
type RateLimitedProvider struct {
	inner   Provider
	limiter *worker.Limiter
}

// WithRateLimit wraps p with the given limiter. A nil limiter returns p
// unchanged.
func WithRateLimit(p Provider, limiter *worker.Limiter) Provider {
	if limiter == nil {
		return p
	}
	return &RateLimitedProvider{inner: p, limiter: limiter}
}

func (r *RateLimitedProvider) Name() string {
	return r.inner.Name()
}

func (r *RateLimitedProvider) IsAvailable(ctx context.Context) bool {
	return r.inner.IsAvailable(ctx)
}

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.limiter.Wait(ctx, r.inner.Name()); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}
