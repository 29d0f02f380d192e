package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a token budget per minute, used to stay inside the
// language-model provider's token-per-minute quota. Wait blocks until the
// requested tokens fit in the current window.
type TokenLimiter struct {
	mu        sync.Mutex
	limit     int
	remaining int
	resetAt   time.Time
}

// NewTokenLimiter creates a TokenLimiter with the given tokens-per-minute
// budget.
func NewTokenLimiter(tokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		limit:     tokensPerMinute,
		remaining: tokensPerMinute,
		resetAt:   time.Now().Add(time.Minute),
	}
}

// GetRemaining reports the tokens left in the current window.
func (t *TokenLimiter) GetRemaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refresh()
	return t.remaining
}

// Wait blocks until tokens can be consumed or the context is cancelled.
// Requests larger than the whole budget are allowed through once the window
// is fresh, otherwise they would never complete.
func (t *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		t.mu.Lock()
		t.refresh()
		if t.remaining >= tokens || (tokens > t.limit && t.remaining == t.limit) {
			t.remaining -= tokens
			t.mu.Unlock()
			return nil
		}
		wait := time.Until(t.resetAt)
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func (t *TokenLimiter) refresh() {
	if time.Now().After(t.resetAt) {
		t.remaining = t.limit
		t.resetAt = time.Now().Add(time.Minute)
	}
}
