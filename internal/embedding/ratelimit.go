package embedding

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter enforces the embedding service's requests-per-minute and
// tokens-per-minute budgets globally across all in-flight batches. It is
// the only shared mutable state between concurrent collection workers
// besides the merged results.
type Limiter struct {
	requests *rate.Limiter
	tokens   *rate.Limiter
	maxBurst int
}

// NewLimiter creates a limiter for the given per-minute budgets.
// Non-positive values disable the corresponding budget.
func NewLimiter(requestsPerMinute, tokensPerMinute int) *Limiter {
	l := &Limiter{}
	if requestsPerMinute > 0 {
		l.requests = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1)
	}
	if tokensPerMinute > 0 {
		l.tokens = rate.NewLimiter(rate.Limit(float64(tokensPerMinute)/60.0), tokensPerMinute)
		l.maxBurst = tokensPerMinute
	}
	return l
}

// Wait blocks until the limiter admits one request spending the given token
// estimate, or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context, tokens int) error {
	if l.requests != nil {
		if err := l.requests.Wait(ctx); err != nil {
			return err
		}
	}
	if l.tokens != nil && tokens > 0 {
		// A single oversized batch may not exceed the burst or WaitN errors
		// instead of blocking.
		if tokens > l.maxBurst {
			tokens = l.maxBurst
		}
		if err := l.tokens.WaitN(ctx, tokens); err != nil {
			return err
		}
	}
	return nil
}
