package security

import (
	"context"
	"sync"
	"time"
)

// RateLimiter admits or rejects an operation for an identifier within a
// fixed window. Allow returns false once the count in the current window has
// reached maxRequests.
type RateLimiter interface {
	Allow(ctx context.Context, identifier string, maxRequests int, window time.Duration) (bool, error)
}

type windowState struct {
	count   int
	resetAt time.Time
}

// MemoryRateLimiter is a process-local fixed-window limiter. Increment and
// compare happen under one lock, so concurrent callers cannot jointly slip
// past the boundary.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*windowState
	now     func() time.Time
}

// NewMemoryRateLimiter creates an in-memory rate limiter
func NewMemoryRateLimiter() *MemoryRateLimiter {
	return &MemoryRateLimiter{
		windows: make(map[string]*windowState),
		now:     time.Now,
	}
}

// Allow reports whether the identifier may proceed in the current window.
func (l *MemoryRateLimiter) Allow(_ context.Context, identifier string, maxRequests int, window time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.windows[identifier]
	if !ok || now.After(state.resetAt) {
		l.windows[identifier] = &windowState{count: 1, resetAt: now.Add(window)}
		return true, nil
	}

	if state.count >= maxRequests {
		return false, nil
	}
	state.count++
	return true, nil
}
